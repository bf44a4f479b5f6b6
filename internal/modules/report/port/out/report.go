package out

import (
	"context"

	"labsched/internal/modules/report/domain"
)

type Source interface {
	Monthly(ctx context.Context, month domain.Month) (domain.MonthlyReport, error)
	Instructor(ctx context.Context, month domain.Month) (domain.InstructorReport, error)
	PeakHours(ctx context.Context, month domain.Month) (domain.PeakHoursReport, error)
}
