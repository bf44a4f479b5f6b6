package out

import (
	"context"
	"net/url"

	"labsched/internal/modules/report/domain"
	reportout "labsched/internal/modules/report/port/out"
	"labsched/internal/platform/httpapi"
)

type HTTPSource struct {
	client *httpapi.Client
}

func NewHTTPSource(client *httpapi.Client) reportout.Source {
	return &HTTPSource{client: client}
}

func endpoint(t domain.Type, month domain.Month) string {
	return t.Endpoint() + "?month=" + url.QueryEscape(string(month))
}

func (s *HTTPSource) Monthly(ctx context.Context, month domain.Month) (domain.MonthlyReport, error) {
	r := domain.MonthlyReport{}
	err := s.client.Get(ctx, endpoint(domain.TypeMonthly, month), &r)
	return r, err
}

func (s *HTTPSource) Instructor(ctx context.Context, month domain.Month) (domain.InstructorReport, error) {
	r := domain.InstructorReport{}
	err := s.client.Get(ctx, endpoint(domain.TypeInstructor, month), &r)
	return r, err
}

func (s *HTTPSource) PeakHours(ctx context.Context, month domain.Month) (domain.PeakHoursReport, error) {
	var r domain.PeakHoursReport
	err := s.client.Get(ctx, endpoint(domain.TypePeakHours, month), &r)
	return r, err
}
