package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

// Notification kinds sent through a Notifier.
const (
	NotifyPasswordReset        = "password_reset"
	NotifyAdminCreated         = "admin_created"
	NotifySuperAdminCreated    = "superadmin_created"
	NotifyTemporaryAdminGrant  = "temporary_admin_granted"
	NotifyTemporaryAdminRevoke = "temporary_admin_revoked"
)

type Notification struct {
	Kind string            `json:"kind"`
	To   string            `json:"to"`
	Data map[string]string `json:"data,omitempty"`
}

// Notifier delivers out-of-band messages such as password reset emails.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the request logger. Only the keys of
// Data are logged unless Reveal is set, which is meant for local development
// where the log is the only way to read a reset link.
type LogNotifier struct {
	Reveal bool
}

func (n LogNotifier) Notify(ctx context.Context, msg Notification) error {
	attrs := []any{
		slog.String("kind", msg.Kind),
		slog.String("to", msg.To),
	}
	if n.Reveal {
		attrs = append(attrs, slog.Any("data", msg.Data))
	} else {
		keys := make([]string, 0, len(msg.Data))
		for k := range msg.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs = append(attrs, slog.Any("fields", keys))
	}
	slogx.FromContext(ctx).Info("notification queued", attrs...)
	return nil
}

// DefaultWebhookTimeout bounds a single webhook delivery.
const DefaultWebhookTimeout = 5 * time.Second

// WebhookNotifier POSTs each notification as JSON to URL. The receiving side
// (the hubsite mailer) renders and sends the email. A non-empty Token is sent
// as a bearer credential.
type WebhookNotifier struct {
	URL    string
	Token  string
	Client *http.Client
}

func (w *WebhookNotifier) client() *http.Client {
	if w.Client != nil {
		return w.Client
	}
	return &http.Client{Timeout: DefaultWebhookTimeout}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.Token != "" {
		req.Header.Set("Authorization", "Bearer "+w.Token)
	}

	resp, err := w.client().Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deliver notification: webhook answered %d", resp.StatusCode)
	}
	return nil
}

// resetLink appends token as the "token" query parameter of base. An empty
// base yields "".
func resetLink(base, token string) string {
	if base == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// notify sends n and logs, but does not return, delivery failures.
func notify(ctx context.Context, nf Notifier, n Notification) {
	if nf == nil {
		nf = LogNotifier{}
	}
	if err := nf.Notify(ctx, n); err != nil {
		slogx.FromContext(ctx).Error("notification failed", slog.String("kind", n.Kind), slog.Any("error", err))
	}
}
