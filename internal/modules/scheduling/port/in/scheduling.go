package in

import (
	"context"

	"labsched/internal/modules/scheduling/dto"
)

type Usecase interface {
	Dashboard(ctx context.Context) (dto.StatsOutput, error)
	Labs(ctx context.Context) ([]dto.LabOutput, error)
	Courses(ctx context.Context) ([]dto.CourseOutput, error)
	Reservations(ctx context.Context) ([]dto.ReservationOutput, error)
	Pending(ctx context.Context) ([]dto.ReservationOutput, error)
	Reserve(ctx context.Context, input dto.ReservationInput) (dto.CreateOutput, error)
	// Approve and Decline pass the decision through to the server unchanged.
	Approve(ctx context.Context, reservationID int) (dto.DecisionOutput, error)
	Decline(ctx context.Context, reservationID int) (dto.DecisionOutput, error)
}
