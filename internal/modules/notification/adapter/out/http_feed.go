package out

import (
	"context"
	"net/http"
	"net/url"

	"labsched/internal/modules/notification/domain"
	notificationout "labsched/internal/modules/notification/port/out"
	"labsched/internal/platform/httpapi"
)

// HTTPFeed reads the notification endpoints. Calls are quiet: background
// failures are logged by the caller instead of alerted.
type HTTPFeed struct {
	client *httpapi.Client
}

func NewHTTPFeed(client *httpapi.Client) notificationout.Feed {
	return &HTTPFeed{client: client}
}

func (f *HTTPFeed) ListUnread(ctx context.Context) ([]domain.Record, error) {
	list := domain.RecordList{}
	err := f.client.Call(ctx, httpapi.Request{
		Method:   http.MethodGet,
		Endpoint: "/notifications/?unread_only=true",
		Quiet:    true,
	}, &list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (f *HTTPFeed) MarkRead(ctx context.Context, id domain.ID) error {
	return f.client.Call(ctx, httpapi.Request{
		Method:   http.MethodPost,
		Endpoint: "/notifications/" + url.PathEscape(string(id)) + "/read",
		Quiet:    true,
	}, nil)
}
