package in

import (
	"context"

	schedulingdto "labsched/internal/modules/scheduling/dto"
	schedulingin "labsched/internal/modules/scheduling/port/in"
)

type CLIHandler struct {
	usecase schedulingin.Usecase
}

func NewCLIHandler(usecase schedulingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Dashboard(ctx context.Context) (schedulingdto.StatsOutput, error) {
	return h.usecase.Dashboard(ctx)
}

func (h CLIHandler) Labs(ctx context.Context) ([]schedulingdto.LabOutput, error) {
	return h.usecase.Labs(ctx)
}

func (h CLIHandler) Courses(ctx context.Context) ([]schedulingdto.CourseOutput, error) {
	return h.usecase.Courses(ctx)
}

func (h CLIHandler) Reservations(ctx context.Context) ([]schedulingdto.ReservationOutput, error) {
	return h.usecase.Reservations(ctx)
}

func (h CLIHandler) Pending(ctx context.Context) ([]schedulingdto.ReservationOutput, error) {
	return h.usecase.Pending(ctx)
}

func (h CLIHandler) Reserve(ctx context.Context, input schedulingdto.ReservationInput) (schedulingdto.CreateOutput, error) {
	return h.usecase.Reserve(ctx, input)
}

func (h CLIHandler) Approve(ctx context.Context, id int) (schedulingdto.DecisionOutput, error) {
	return h.usecase.Approve(ctx, id)
}

func (h CLIHandler) Decline(ctx context.Context, id int) (schedulingdto.DecisionOutput, error) {
	return h.usecase.Decline(ctx, id)
}
