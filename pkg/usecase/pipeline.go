package usecase

import (
	"bytes"
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/EngrShabir135/koboimg/pkg/domain/interfaces"
	"github.com/EngrShabir135/koboimg/pkg/domain/model"
	"github.com/EngrShabir135/koboimg/pkg/infra/tabular"
)

// DefaultPrefix matches the original Kobo naming convention.
const DefaultPrefix = "bill"

type pipeline struct {
	fetcher interfaces.ImageFetcher
}

// NewPipeline creates the spreadsheet-to-archive pipeline use case
func NewPipeline(fetcher interfaces.ImageFetcher) interfaces.PipelineUseCase {
	return &pipeline{fetcher: fetcher}
}

// Execute parses the uploaded spreadsheet, fetches every URL one at a
// time in row order, then builds the ZIP archive and the failure report.
// Per-URL errors become failure entries; only an unusable input file
// aborts the run.
func (p *pipeline) Execute(ctx context.Context, input *model.RunInput) (*model.RunResult, error) {
	logger := ctxlog.From(ctx)

	prefix := input.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	start := input.StartIndex
	if start < 1 {
		start = 1
	}

	parsed, err := tabular.ReadURLs(input.Filename, bytes.NewReader(input.Data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse spreadsheet", goerr.V("filename", input.Filename))
	}

	total := len(parsed.URLs)
	logger.Info("Parsed spreadsheet",
		"filename", input.Filename,
		"urls", total,
		"skipped_rows", parsed.SkippedRows,
		"duplicates", parsed.Duplicates,
	)

	result := &model.RunResult{
		Summary: model.RunSummary{
			Total:       total,
			SkippedRows: parsed.SkippedRows,
			Duplicates:  parsed.Duplicates,
		},
	}

	for i, u := range parsed.URLs {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "run abandoned",
				goerr.V("completed", i), goerr.V("total", total))
		}

		index := start + i
		fetched, err := p.fetcher.FetchImage(ctx, u, input.Credentials)
		if err != nil {
			logger.Warn("Fetch failed", "url", u, "index", index, "error", err)
			result.Failures = append(result.Failures, model.FailureEntry{
				URL:    u,
				Reason: err.Error(),
			})
			result.Summary.Failed++
		} else {
			rec := &model.ImageRecord{
				URL:       u,
				Index:     index,
				Prefix:    prefix,
				Extension: InferExtension(fetched.Data, fetched.ContentType, u),
				Data:      fetched.Data,
			}
			logger.Debug("Fetched image",
				"url", u,
				"filename", rec.Filename(),
				"size_bytes", len(rec.Data),
			)
			result.Records = append(result.Records, rec)
			result.Summary.Succeeded++
		}

		if input.OnProgress != nil {
			input.OnProgress(i+1, total)
		}
	}

	archive, err := BuildArchive(result.Records)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build archive")
	}
	result.Archive = archive

	report, err := BuildFailureReport(result.Failures)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build failure report")
	}
	result.FailureCSV = report

	logger.Info("Pipeline completed",
		"succeeded", result.Summary.Succeeded,
		"failed", result.Summary.Failed,
		"archive_bytes", len(result.Archive),
	)

	return result, nil
}
