package usecase

import (
	"bytes"
	"encoding/csv"

	"github.com/m-mizutani/goerr/v2"

	"github.com/EngrShabir135/koboimg/pkg/domain/model"
)

// FailureReportHeader is the first row of every failure report.
var FailureReportHeader = []string{"url", "reason"}

// BuildFailureReport serializes the failures as CSV in encounter order.
// A report is always produced; with no failures it is header only.
func BuildFailureReport(failures []model.FailureEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(FailureReportHeader); err != nil {
		return nil, goerr.Wrap(err, "failed to write report header")
	}
	for _, f := range failures {
		if err := w.Write([]string{f.URL, f.Reason}); err != nil {
			return nil, goerr.Wrap(err, "failed to write report row", goerr.V("url", f.URL))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, goerr.Wrap(err, "failed to flush failure report")
	}

	return buf.Bytes(), nil
}
