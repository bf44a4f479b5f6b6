package in

import (
	"context"

	sessiondto "labsched/internal/modules/session/dto"
	sessionin "labsched/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (sessiondto.StateOutput, error) {
	return h.usecase.Login(ctx, sessiondto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current() (sessiondto.SessionOutput, bool) {
	return h.usecase.Current()
}

func (h CLIHandler) Token() string {
	return h.usecase.Token()
}

func (h CLIHandler) Subscribe(fn func(sessiondto.Event)) func() {
	return h.usecase.Subscribe(fn)
}
