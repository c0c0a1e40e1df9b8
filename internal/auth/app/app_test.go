package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, env map[string]string) *Application {
	t.Helper()

	t.Setenv("AUTH_SIGNING_SECRET", "app-test-secret")
	t.Setenv("AUTH_SUPERADMIN_KEY", "app-test-bootstrap")
	t.Setenv("AUTH_DATABASE_FILE", filepath.Join(t.TempDir(), "auth.db"))
	t.Setenv("LOG_LEVEL", "error")
	for k, v := range env {
		t.Setenv(k, v)
	}

	application, err := New(LoadConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })
	return application
}

func TestApplication_PasswordResetReachesWebhook(t *testing.T) {
	var (
		mu   sync.Mutex
		sent []service.Notification
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n service.Notification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		mu.Lock()
		sent = append(sent, n)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	application := newTestApp(t, map[string]string{
		"ENV":                     "prod",
		"AUTH_NOTIFY_WEBHOOK_URL": hook.URL,
		"AUTH_RESET_URL":          "https://hub.example.org/reset-password",
	})
	ctx := context.Background()

	_, err := application.adminService.CreateSuperAdmin(ctx, "app-test-bootstrap", service.CreateUserInput{
		Email:    "root@example.org",
		Name:     "Root",
		Password: "root password 123",
	})
	require.NoError(t, err)

	_, err = application.resetService.RequestPasswordReset(ctx, "root@example.org")
	require.NoError(t, err)

	var link string
	mu.Lock()
	for _, n := range sent {
		if n.Kind == service.NotifyPasswordReset {
			link = n.Data["link"]
		}
	}
	mu.Unlock()
	require.NotEmpty(t, link)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	_, err = application.resetService.ResetPassword(ctx, parsed.Query().Get("token"), "a fresh password")
	require.NoError(t, err)

	_, err = application.sessionService.SignIn(ctx, service.SignInInput{
		Email:    "root@example.org",
		Password: "a fresh password",
	})
	require.NoError(t, err)
}

func TestApplication_NotifierWithoutWebhook(t *testing.T) {
	dev := newTestApp(t, map[string]string{"ENV": "dev", "AUTH_NOTIFY_WEBHOOK_URL": ""})
	require.Equal(t, service.LogNotifier{Reveal: true}, dev.resetService.Notifier)

	prod := newTestApp(t, map[string]string{"ENV": "prod", "AUTH_NOTIFY_WEBHOOK_URL": ""})
	require.Equal(t, service.LogNotifier{}, prod.resetService.Notifier)
}
