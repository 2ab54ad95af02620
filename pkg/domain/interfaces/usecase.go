package interfaces

import (
	"context"

	"github.com/EngrShabir135/koboimg/pkg/domain/model"
)

// PipelineUseCase defines the whole spreadsheet-to-archive pipeline
type PipelineUseCase interface {
	// Execute parses the uploaded spreadsheet, fetches every URL
	// sequentially and builds the archive and the failure report.
	Execute(ctx context.Context, input *model.RunInput) (*model.RunResult, error)
}
