package out

import (
	notificationout "labsched/internal/modules/notification/port/out"
	sessionin "labsched/internal/modules/session/port/in"
)

type SessionProbeAdapter struct {
	session sessionin.Usecase
}

func NewSessionProbeAdapter(session sessionin.Usecase) notificationout.SessionProbe {
	return &SessionProbeAdapter{session: session}
}

func (a *SessionProbeAdapter) Authenticated() bool {
	_, ok := a.session.Current()
	return ok
}
