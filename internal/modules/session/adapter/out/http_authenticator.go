package out

import (
	"context"
	"fmt"
	"net/http"

	"labsched/internal/modules/session/domain"
	sessionout "labsched/internal/modules/session/port/out"
	"labsched/internal/platform/httpapi"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        domain.UserProfile `json:"user"`
}

func (r *tokenResponse) Validate() error {
	if r.AccessToken == "" {
		return fmt.Errorf("access_token is empty")
	}
	if r.User.Role == "" {
		return fmt.Errorf("user.role is empty")
	}
	return nil
}

// HTTPAuthenticator logs in against POST /login. A 401 there means bad
// credentials, so it is sent with AnonymousAuth.
type HTTPAuthenticator struct {
	client *httpapi.Client
}

func NewHTTPAuthenticator(client *httpapi.Client) sessionout.Authenticator {
	return &HTTPAuthenticator{client: client}
}

func (a *HTTPAuthenticator) Login(ctx context.Context, username, password string) (domain.Session, error) {
	resp := tokenResponse{}
	err := a.client.Call(ctx, httpapi.Request{
		Method:        http.MethodPost,
		Endpoint:      "/login",
		Body:          loginRequest{Username: username, Password: password},
		AnonymousAuth: true,
	}, &resp)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: resp.AccessToken, User: resp.User}, nil
}
