package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Paths whose cached rendering is stale after any ad mutation.
var AdChangePaths = []string{"/", "/admin", "/admin/ads"}

// ChangeNotifier is told which rendered paths went stale after a mutation.
type ChangeNotifier interface {
	Invalidate(ctx context.Context, paths ...string)
}

// LogNotifier only records invalidations.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Invalidate(ctx context.Context, paths ...string) {
	if n.Log != nil {
		n.Log.Debug("invalidate cached paths", zap.Strings("paths", paths))
	}
}

// Notifiers fans an invalidation out to several notifiers.
type Notifiers []ChangeNotifier

func (ns Notifiers) Invalidate(ctx context.Context, paths ...string) {
	for _, n := range ns {
		n.Invalidate(ctx, paths...)
	}
}

// WebhookNotifier posts stale paths to the frontend's revalidation endpoint.
// Delivery is best effort: failures are logged and never reach the caller.
type WebhookNotifier struct {
	URL    string
	Secret string
	Client *http.Client
	Log    *zap.Logger
}

func (n WebhookNotifier) Invalidate(ctx context.Context, paths ...string) {
	if n.URL == "" {
		return
	}
	body, err := json.Marshal(map[string][]string{"paths": paths})
	if err != nil {
		return
	}
	// The request outlives the caller's context so a finished HTTP request
	// does not cancel the notification.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		n.logFailure(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.Secret != "" {
		req.Header.Set("Authorization", "Bearer "+n.Secret)
	}
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		n.logFailure(err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logFailure(fmt.Errorf("revalidate webhook returned %s", resp.Status))
	}
}

func (n WebhookNotifier) logFailure(err error) {
	if n.Log != nil {
		n.Log.Warn("revalidate webhook failed", zap.Error(err))
	}
}
