package usecase

import (
	"context"
	"fmt"

	"labsched/internal/modules/scheduling/domain"
	schedulingdto "labsched/internal/modules/scheduling/dto"
	schedulingin "labsched/internal/modules/scheduling/port/in"
	"labsched/internal/modules/scheduling/service"
	apperrors "labsched/internal/platform/errors"
	"labsched/internal/platform/text"
)

type Interactor struct {
	svc *service.SchedulingService
}

func NewInteractor(svc *service.SchedulingService) schedulingin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Dashboard(ctx context.Context) (schedulingdto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx)
	if err != nil {
		return schedulingdto.StatsOutput{}, err
	}
	return schedulingdto.StatsOutput{
		TotalLabs:       stats.TotalLabs,
		TotalSessions:   stats.TotalSessions,
		PendingRequests: stats.PendingRequests,
		TotalUsers:      stats.TotalUsers,
	}, nil
}

func (i *Interactor) Labs(ctx context.Context) ([]schedulingdto.LabOutput, error) {
	labs, err := i.svc.Labs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]schedulingdto.LabOutput, 0, len(labs))
	for _, l := range labs {
		out = append(out, schedulingdto.LabOutput{
			ID:          l.ID,
			Name:        text.SingleLine(l.Name),
			Description: text.Sanitize(l.Description),
			Capacity:    l.Capacity,
			Equipment:   text.Sanitize(l.Equipment),
		})
	}
	return out, nil
}

func (i *Interactor) Courses(ctx context.Context) ([]schedulingdto.CourseOutput, error) {
	courses, err := i.svc.Courses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]schedulingdto.CourseOutput, 0, len(courses))
	for _, c := range courses {
		out = append(out, schedulingdto.CourseOutput{
			ID:      c.ID,
			Code:    text.SingleLine(c.Code),
			Name:    text.SingleLine(c.Name),
			Label:   text.SingleLine(c.Label()),
			Credits: c.Credits,
		})
	}
	return out, nil
}

func (i *Interactor) Reservations(ctx context.Context) ([]schedulingdto.ReservationOutput, error) {
	list, err := i.svc.Reservations(ctx)
	if err != nil {
		return nil, err
	}
	return reservationOutputs(list), nil
}

func (i *Interactor) Pending(ctx context.Context) ([]schedulingdto.ReservationOutput, error) {
	list, err := i.svc.Pending(ctx)
	if err != nil {
		return nil, err
	}
	return reservationOutputs(list), nil
}

func (i *Interactor) Reserve(ctx context.Context, input schedulingdto.ReservationInput) (schedulingdto.CreateOutput, error) {
	req, err := domain.NewReservationRequest(input.LabID, input.CourseID, input.Section, input.StartTime, input.EndTime, input.Duration, input.Notes)
	if err != nil {
		return schedulingdto.CreateOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	result, err := i.svc.Reserve(ctx, req)
	if err != nil {
		return schedulingdto.CreateOutput{}, err
	}
	message := text.SingleLine(result.Message)
	if message == "" {
		message = "Reservation created successfully"
	}
	return schedulingdto.CreateOutput{ReservationID: result.ReservationID, Message: message}, nil
}

func (i *Interactor) Approve(ctx context.Context, reservationID int) (schedulingdto.DecisionOutput, error) {
	return i.decide(ctx, reservationID, domain.StatusApproved)
}

func (i *Interactor) Decline(ctx context.Context, reservationID int) (schedulingdto.DecisionOutput, error) {
	return i.decide(ctx, reservationID, domain.StatusDeclined)
}

func (i *Interactor) decide(ctx context.Context, reservationID int, status domain.Status) (schedulingdto.DecisionOutput, error) {
	ack, err := i.svc.Decide(ctx, reservationID, status)
	if err != nil {
		return schedulingdto.DecisionOutput{}, err
	}
	return schedulingdto.DecisionOutput{
		ReservationID: reservationID,
		Status:        string(status),
		Message:       text.SingleLine(ack.Message),
	}, nil
}

func reservationOutputs(list domain.ReservationList) []schedulingdto.ReservationOutput {
	out := make([]schedulingdto.ReservationOutput, 0, len(list))
	for _, r := range list {
		out = append(out, schedulingdto.ReservationOutput{
			ID:             r.ID,
			LabName:        text.SingleLine(r.LabName),
			CourseName:     text.SingleLine(r.CourseName),
			Section:        text.SingleLine(r.Section),
			StartTime:      text.SingleLine(r.StartTime),
			EndTime:        text.SingleLine(r.EndTime),
			Duration:       r.Duration,
			Notes:          text.Sanitize(r.Notes),
			Status:         text.SingleLine(string(r.Status)),
			InstructorName: text.SingleLine(r.InstructorName),
		})
	}
	return out
}
