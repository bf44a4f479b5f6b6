package out

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"labsched/internal/modules/scheduling/domain"
	schedulingout "labsched/internal/modules/scheduling/port/out"
	"labsched/internal/platform/httpapi"
)

type HTTPGateway struct {
	client *httpapi.Client
}

func NewHTTPGateway(client *httpapi.Client) schedulingout.Gateway {
	return &HTTPGateway{client: client}
}

func (g *HTTPGateway) Stats(ctx context.Context) (domain.DashboardStats, error) {
	stats := domain.DashboardStats{}
	err := g.client.Get(ctx, "/dashboard/stats", &stats)
	return stats, err
}

func (g *HTTPGateway) Labs(ctx context.Context) (domain.LabList, error) {
	labs := domain.LabList{}
	err := g.client.Get(ctx, "/labs", &labs)
	return labs, err
}

func (g *HTTPGateway) Courses(ctx context.Context) (domain.CourseList, error) {
	courses := domain.CourseList{}
	err := g.client.Get(ctx, "/courses", &courses)
	return courses, err
}

func (g *HTTPGateway) Reservations(ctx context.Context) (domain.ReservationList, error) {
	list := domain.ReservationList{}
	err := g.client.Get(ctx, "/reservations", &list)
	return list, err
}

func (g *HTTPGateway) CreateReservation(ctx context.Context, req domain.ReservationRequest) (domain.CreateResult, error) {
	result := domain.CreateResult{}
	err := g.client.Post(ctx, "/reservations", req, &result)
	return result, err
}

func (g *HTTPGateway) UpdateStatus(ctx context.Context, reservationID int, status domain.Status) (domain.Ack, error) {
	ack := domain.Ack{}
	err := g.client.Call(ctx, httpapi.Request{
		Method:   http.MethodPut,
		Endpoint: "/reservations/" + strconv.Itoa(reservationID) + "?status=" + url.QueryEscape(string(status)),
	}, &ack)
	return ack, err
}
