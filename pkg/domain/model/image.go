package model

import "fmt"

// Credentials carries the Kobo account used for HTTP Basic Authentication.
// Held in memory for the duration of one run only. Fields are tagged for
// masq so they are redacted if a value ever reaches a log record.
type Credentials struct {
	Username string `masq:"secret"`
	Password string `masq:"secret"`
}

// IsValid reports whether both fields are present.
func (c Credentials) IsValid() bool {
	return c.Username != "" && c.Password != ""
}

// FetchedImage is the raw result of one authenticated GET.
type FetchedImage struct {
	Data        []byte
	ContentType string
}

// ImageRecord represents one successfully fetched image pending archival.
type ImageRecord struct {
	URL       string // Original URL from the spreadsheet
	Index     int    // Row position among the parsed URLs, 1-based
	Prefix    string // Filename prefix, e.g. "bill"
	Extension string // Inferred extension without the dot, e.g. "jpg"
	Data      []byte
}

// Filename returns the archive entry name, e.g. "bill 3.jpg". The index is
// unique per row, so names never collide within one archive.
func (r *ImageRecord) Filename() string {
	return fmt.Sprintf("%s %d.%s", r.Prefix, r.Index, r.Extension)
}

// FailureEntry represents one URL that could not be fetched. Immutable
// once created.
type FailureEntry struct {
	URL    string
	Reason string
}
