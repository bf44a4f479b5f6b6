package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"labsched/internal/modules/scheduling/domain"
	schedulingout "labsched/internal/modules/scheduling/port/out"
	apperrors "labsched/internal/platform/errors"
)

type SchedulingService struct {
	gateway schedulingout.Gateway
	logger  hclog.Logger
}

func NewSchedulingService(gateway schedulingout.Gateway, logger hclog.Logger) *SchedulingService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SchedulingService{gateway: gateway, logger: logger.Named("scheduling")}
}

func (s *SchedulingService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return s.gateway.Stats(ctx)
}

func (s *SchedulingService) Labs(ctx context.Context) (domain.LabList, error) {
	return s.gateway.Labs(ctx)
}

func (s *SchedulingService) Courses(ctx context.Context) (domain.CourseList, error) {
	return s.gateway.Courses(ctx)
}

func (s *SchedulingService) Reservations(ctx context.Context) (domain.ReservationList, error) {
	return s.gateway.Reservations(ctx)
}

func (s *SchedulingService) Pending(ctx context.Context) (domain.ReservationList, error) {
	all, err := s.gateway.Reservations(ctx)
	if err != nil {
		return nil, err
	}
	return all.Pending(), nil
}

func (s *SchedulingService) Reserve(ctx context.Context, req domain.ReservationRequest) (domain.CreateResult, error) {
	result, err := s.gateway.CreateReservation(ctx, req)
	if err != nil {
		return domain.CreateResult{}, err
	}
	s.logger.Info("reservation requested", "id", result.ReservationID, "lab_id", req.LabID, "course_id", req.CourseID)
	return result, nil
}

func (s *SchedulingService) Decide(ctx context.Context, reservationID int, status domain.Status) (domain.Ack, error) {
	if reservationID <= 0 {
		return domain.Ack{}, fmt.Errorf("%w: reservation id must be positive", apperrors.ErrInvalidInput)
	}
	ack, err := s.gateway.UpdateStatus(ctx, reservationID, status)
	if err != nil {
		return domain.Ack{}, err
	}
	s.logger.Info("reservation status updated", "id", reservationID, "status", status)
	return ack, nil
}
