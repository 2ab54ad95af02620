package usecase

import (
	"archive/zip"
	"bytes"

	"github.com/m-mizutani/goerr/v2"

	"github.com/EngrShabir135/koboimg/pkg/domain/model"
)

// BuildArchive packs the successful records into a single flat ZIP in
// record order. Zero records yield a valid empty archive, not an error.
func BuildArchive(records []*model.ImageRecord) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, rec := range records {
		w, err := zw.Create(rec.Filename())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create archive entry", goerr.V("filename", rec.Filename()))
		}
		if _, err := w.Write(rec.Data); err != nil {
			return nil, goerr.Wrap(err, "failed to write archive entry", goerr.V("filename", rec.Filename()))
		}
	}

	if err := zw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize archive")
	}

	return buf.Bytes(), nil
}
