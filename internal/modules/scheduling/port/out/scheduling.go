package out

import (
	"context"

	"labsched/internal/modules/scheduling/domain"
)

type Gateway interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
	Labs(ctx context.Context) (domain.LabList, error)
	Courses(ctx context.Context) (domain.CourseList, error)
	Reservations(ctx context.Context) (domain.ReservationList, error)
	CreateReservation(ctx context.Context, req domain.ReservationRequest) (domain.CreateResult, error)
	UpdateStatus(ctx context.Context, reservationID int, status domain.Status) (domain.Ack, error)
}
