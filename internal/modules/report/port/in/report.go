package in

import (
	"context"

	"labsched/internal/modules/report/dto"
)

type Usecase interface {
	// Generate fetches one report and shapes it into a table.
	Generate(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error)
	Types() []string
	// CurrentMonth is the default month selection in YYYY-MM form.
	CurrentMonth() string
}
