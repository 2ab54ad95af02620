package types

import "github.com/m-mizutani/goerr/v2"

// Whole-run errors. The uploaded file itself is unusable, so the run
// aborts before any fetching begins.
var (
	ErrUnsupportedFormat = goerr.New("unsupported spreadsheet format")
	ErrMissingColumn     = goerr.New("no URL column found")
)

// Per-URL errors. Each one is converted into a failure report entry and
// the run continues with the next URL.
var (
	ErrAuthentication   = goerr.New("authentication failed")
	ErrNotFound         = goerr.New("image not found")
	ErrNetwork          = goerr.New("network error")
	ErrUnexpectedStatus = goerr.New("unexpected response status")
)
