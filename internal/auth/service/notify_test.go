package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier_HidesValuesUnlessRevealed(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	msg := Notification{Kind: NotifyPasswordReset, To: "alice@example.org", Data: map[string]string{"token": "s3cret-token"}}

	require.NoError(t, LogNotifier{}.Notify(ctx, msg))
	require.NotContains(t, buf.String(), "s3cret-token")
	require.Contains(t, buf.String(), `"fields":["token"]`)

	buf.Reset()
	require.NoError(t, LogNotifier{Reveal: true}.Notify(ctx, msg))
	require.Contains(t, buf.String(), "s3cret-token")
}

func TestWebhookNotifier_DeliversResetLink(t *testing.T) {
	received := make(chan Notification, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer hook-secret", r.Header.Get("Authorization"))
		var n Notification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		received <- n
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)
	f.resets.Notifier = &WebhookNotifier{URL: srv.URL, Token: "hook-secret"}
	f.resets.ResetURL = "https://hub.example.org/reset-password?lang=en"

	_, err := f.resets.RequestPasswordReset(f.ctx, alice.Email)
	require.NoError(t, err)

	n := <-received
	require.Equal(t, NotifyPasswordReset, n.Kind)
	require.Equal(t, alice.Email, n.To)

	link, err := url.Parse(n.Data["link"])
	require.NoError(t, err)
	require.Equal(t, "hub.example.org", link.Host)
	require.Equal(t, "en", link.Query().Get("lang"))
	require.Equal(t, n.Data["token"], link.Query().Get("token"))

	_, err = f.resets.ResetPassword(f.ctx, link.Query().Get("token"), "brand new password")
	require.NoError(t, err)
}

func TestWebhookNotifier_RejectedDelivery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := (&WebhookNotifier{URL: srv.URL}).Notify(context.Background(), Notification{Kind: NotifyAdminCreated})
	require.ErrorContains(t, err, "webhook answered 502")
}
