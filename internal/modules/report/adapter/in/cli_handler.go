package in

import (
	"context"

	reportdto "labsched/internal/modules/report/dto"
	reportin "labsched/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Generate(ctx context.Context, reportType, month string) (reportdto.ReportOutput, error) {
	return h.usecase.Generate(ctx, reportdto.ReportInput{Type: reportType, Month: month})
}

func (h CLIHandler) Types() []string {
	return h.usecase.Types()
}

func (h CLIHandler) CurrentMonth() string {
	return h.usecase.CurrentMonth()
}
