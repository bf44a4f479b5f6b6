package service

import (
	"context"
	"fmt"

	"labsched/internal/modules/report/domain"
	reportout "labsched/internal/modules/report/port/out"
	"labsched/internal/platform/clock"
)

type ReportService struct {
	source reportout.Source
	clock  clock.Clock
}

func NewReportService(source reportout.Source, clk clock.Clock) *ReportService {
	return &ReportService{source: source, clock: clk}
}

func (s *ReportService) Generate(ctx context.Context, typ domain.Type, month domain.Month) (domain.Table, error) {
	switch typ {
	case domain.TypeMonthly:
		r, err := s.source.Monthly(ctx, month)
		if err != nil {
			return domain.Table{}, err
		}
		return domain.MonthlyTable(month, r), nil
	case domain.TypeInstructor:
		r, err := s.source.Instructor(ctx, month)
		if err != nil {
			return domain.Table{}, err
		}
		return domain.InstructorTable(month, r), nil
	case domain.TypePeakHours:
		r, err := s.source.PeakHours(ctx, month)
		if err != nil {
			return domain.Table{}, err
		}
		return domain.PeakHoursTable(month, r), nil
	}
	return domain.Table{}, fmt.Errorf("unsupported report type %q", typ)
}

func (s *ReportService) CurrentMonth() domain.Month {
	return domain.MonthOf(s.clock.Now())
}
