package in

import (
	"context"

	"labsched/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context) (dto.StateOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.StateOutput, error)
	Logout(ctx context.Context) error
	Current() (dto.SessionOutput, bool)
	Token() string
	Subscribe(fn func(dto.Event)) (unsubscribe func())
}
