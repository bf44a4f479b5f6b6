package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"labsched/internal/modules/session/domain"
	apperrors "labsched/internal/platform/errors"
)

type SessionService struct{}

func NewSessionService() *SessionService {
	return &SessionService{}
}

// Restore turns stored key-values into a session. A missing key yields
// ErrNotAuthenticated; an unparseable profile yields ErrSessionDataCorrupt.
func (s *SessionService) Restore(stored domain.Stored) (domain.Session, error) {
	if strings.TrimSpace(stored.Token) == "" || strings.TrimSpace(stored.UserData) == "" {
		return domain.Session{}, apperrors.ErrNotAuthenticated
	}
	profile, err := domain.ParseProfile(stored.UserData)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrSessionDataCorrupt, err)
	}
	return domain.Session{Token: stored.Token, User: profile}, nil
}

func (s *SessionService) Encode(session domain.Session) (domain.Stored, error) {
	if session.Token == "" {
		return domain.Stored{}, fmt.Errorf("%w: empty token", apperrors.ErrInvalidInput)
	}
	raw, err := domain.EncodeProfile(session.User)
	if err != nil {
		return domain.Stored{}, err
	}
	return domain.Stored{Token: session.Token, UserData: raw}, nil
}

// TokenExpiry reads the exp claim without verifying the signature; the client
// has no key and only uses it for display.
func (s *SessionService) TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *SessionService) Visibility(role domain.Role) domain.Visibility {
	return domain.VisibilityFor(role)
}
