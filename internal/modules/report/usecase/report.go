package usecase

import (
	"context"
	"fmt"

	"labsched/internal/modules/report/domain"
	reportdto "labsched/internal/modules/report/dto"
	reportin "labsched/internal/modules/report/port/in"
	"labsched/internal/modules/report/service"
	apperrors "labsched/internal/platform/errors"
)

type Interactor struct {
	svc *service.ReportService
}

func NewInteractor(svc *service.ReportService) reportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Generate(ctx context.Context, input reportdto.ReportInput) (reportdto.ReportOutput, error) {
	typ, err := domain.ParseType(input.Type)
	if err != nil {
		return reportdto.ReportOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	month := i.svc.CurrentMonth()
	if input.Month != "" {
		month, err = domain.ParseMonth(input.Month)
		if err != nil {
			return reportdto.ReportOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}
	table, err := i.svc.Generate(ctx, typ, month)
	if err != nil {
		return reportdto.ReportOutput{}, fmt.Errorf("generate %s report: %w", typ, err)
	}
	out := reportdto.ReportOutput{
		Type:    string(table.Type),
		Month:   string(table.Month),
		Title:   table.Title,
		Columns: table.Columns,
		Rows:    table.Rows,
	}
	for _, b := range table.Bars {
		out.Bars = append(out.Bars, reportdto.BarOutput{Label: b.Label, Percent: b.Percent})
	}
	return out, nil
}

func (i *Interactor) Types() []string {
	out := make([]string, 0, len(domain.Types))
	for _, t := range domain.Types {
		out = append(out, string(t))
	}
	return out
}

func (i *Interactor) CurrentMonth() string {
	return string(i.svc.CurrentMonth())
}
