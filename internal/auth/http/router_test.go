package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const bootstrapKey = "test-bootstrap-key"

type capturingNotifier struct {
	mu   sync.Mutex
	sent []service.Notification
}

func (n *capturingNotifier) Notify(_ context.Context, msg service.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *capturingNotifier) lastToken(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Kind == service.NotifyPasswordReset {
			return n.sent[i].Data["token"]
		}
	}
	t.Fatal("no password reset notification sent")
	return ""
}

type testServer struct {
	*httptest.Server
	client   *authsdk.SDKClient
	notifier *capturingNotifier
	metrics  *metricsx.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec("router-test-secret")
	require.NoError(t, err)

	metrics := metricsx.New(prometheus.NewRegistry())
	notifier := &capturingNotifier{}
	resolver := &service.Resolver{Store: st, Codec: codec, Metrics: metrics, RequireSession: true}

	r := NewRouter(codec, "test", st, metrics, slogx.Discard())
	r.SessionService = &service.SessionService{Store: st, Codec: codec, Guard: &service.AccountGuard{Metrics: metrics}, Metrics: metrics}
	r.ResetService = &service.PasswordResetService{Store: st, Notifier: notifier, Metrics: metrics}
	r.AdminService = &service.AdminService{Store: st, Resolver: resolver, Notifier: notifier, SuperAdminKey: bootstrapKey}
	r.HubService = &service.HubService{Store: st, Resolver: resolver}
	r.MFAService = &service.MFAService{Store: st}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		Server:   srv,
		client:   authsdk.NewSDKClient(srv.URL),
		notifier: notifier,
		metrics:  metrics,
	}
}

// bootstrap creates a superadmin through the public endpoint and signs in.
func (s *testServer) bootstrap(t *testing.T) *authsdk.Session {
	t.Helper()

	_, err := s.client.CreateSuperAdmin(t.Context(), authsdk.CreateSuperAdminRequest{
		BootstrapKey: bootstrapKey,
		Email:        "root@example.org",
		Name:         "Root",
		Password:     "root password 123",
	})
	require.NoError(t, err)

	session, err := s.client.Authenticate(t.Context(), authsdk.SignInRequest{
		Email:    "root@example.org",
		Password: "root password 123",
	})
	require.NoError(t, err)
	return session
}

// createAdmin creates an admin via root and returns its email and password.
func (s *testServer) createAdmin(t *testing.T, root *authsdk.Session, email string) (string, string) {
	t.Helper()

	created, err := root.CreateAdminUser(t.Context(), authsdk.CreateUserRequest{Email: email, Name: email})
	require.NoError(t, err)
	require.NotEmpty(t, created.GeneratedPassword)
	return email, created.GeneratedPassword
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	root := s.bootstrap(t)
	email, password := s.createAdmin(t, root, "alice@example.org")

	signIn, err := s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: "Alice@Example.org", Password: password})
	require.NoError(t, err)
	require.True(t, signIn.Success)
	require.Equal(t, email, signIn.User.Email)
	require.Equal(t, "admin", signIn.User.GlobalRole)

	session := s.client.NewSessionFromTokens(signIn.Tokens)
	me, err := session.CurrentUser(t.Context())
	require.NoError(t, err)
	require.Equal(t, signIn.User.ID, me.ID)

	// Refresh rotates the pair; the old refresh token is dead afterwards.
	rotated, err := s.client.Refresh(t.Context(), signIn.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, signIn.Tokens.RefreshToken, rotated.RefreshToken)

	_, err = s.client.Refresh(t.Context(), signIn.Tokens.RefreshToken)
	require.True(t, authsdk.IsUnauthorized(err))

	// The pre-rotation access token no longer maps to a session.
	resp := s.do(t, http.MethodGet, "/v1/auth/me", signIn.Tokens.AccessToken, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	session = s.client.NewSessionFromTokens(*rotated)
	_, err = session.CurrentUser(t.Context())
	require.NoError(t, err)

	access := session.AccessToken()
	require.NoError(t, session.SignOut(t.Context()))

	resp = s.do(t, http.MethodGet, "/v1/auth/me", access, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Signing out twice is fine.
	resp = s.do(t, http.MethodPost, "/v1/auth/sign-out", access, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignIn_LockoutAfterFailedAttempts(t *testing.T) {
	s := newTestServer(t)
	root := s.bootstrap(t)
	email, password := s.createAdmin(t, root, "bob@example.org")

	for i := 1; i < service.DefaultMaxFailedAttempts; i++ {
		_, err := s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: email, Password: "wrong"})
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr, "attempt %d", i)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, service.ErrInvalidCredentials.Error(), apiErr.Message)
	}

	_, err := s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: email, Password: "wrong"})
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Account is locked. Try again in 30 minutes.", apiErr.Message)

	// The right password does not get past the lock.
	_, err = s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: email, Password: password})
	require.ErrorAs(t, err, &apiErr)
	require.Contains(t, apiErr.Message, "Account is locked")

	// A password reset unlocks the account.
	_, err = s.client.RequestPasswordReset(t.Context(), email)
	require.NoError(t, err)
	_, err = s.client.ResetPassword(t.Context(), s.notifier.lastToken(t), "a fresh password")
	require.NoError(t, err)

	_, err = s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: email, Password: "a fresh password"})
	require.NoError(t, err)
}

func TestSignIn_UnknownEmailMatchesWrongPassword(t *testing.T) {
	s := newTestServer(t)
	root := s.bootstrap(t)
	email, _ := s.createAdmin(t, root, "carol@example.org")

	_, unknown := s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: "nobody@example.org", Password: "wrong"})
	_, wrong := s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: email, Password: "wrong"})
	require.Equal(t, unknown.Error(), wrong.Error())
}

func TestPasswordReset_RevokesSessions(t *testing.T) {
	s := newTestServer(t)
	root := s.bootstrap(t)
	email, password := s.createAdmin(t, root, "dana@example.org")

	session, err := s.client.Authenticate(t.Context(), authsdk.SignInRequest{Email: email, Password: password})
	require.NoError(t, err)

	known, err := s.client.RequestPasswordReset(t.Context(), email)
	require.NoError(t, err)
	unknown, err := s.client.RequestPasswordReset(t.Context(), "ghost@example.org")
	require.NoError(t, err)
	require.Equal(t, known, unknown)

	token := s.notifier.lastToken(t)
	_, err = s.client.ResetPassword(t.Context(), token, "short")
	require.Equal(t, http.StatusBadRequest, statusOf(t, err))

	msg, err := s.client.ResetPassword(t.Context(), token, "a much better password")
	require.NoError(t, err)
	require.Equal(t, service.ResetCompleteMessage, msg)

	_, err = s.client.ResetPassword(t.Context(), token, "another good password")
	require.True(t, authsdk.IsConflict(err))

	_, err = session.CurrentUser(t.Context())
	require.True(t, authsdk.IsUnauthorized(err))
}

func TestAdminAndHubPermissions(t *testing.T) {
	s := newTestServer(t)
	root := s.bootstrap(t)

	_, err := s.client.CreateSuperAdmin(t.Context(), authsdk.CreateSuperAdminRequest{
		BootstrapKey: bootstrapKey,
		Email:        "second@example.org",
		Name:         "Second",
	})
	require.True(t, authsdk.IsConflict(err))

	_, err = s.client.CreateSuperAdmin(t.Context(), authsdk.CreateSuperAdminRequest{BootstrapKey: "nope"})
	require.True(t, authsdk.IsForbidden(err))

	adminEmail, adminPassword := s.createAdmin(t, root, "erin@example.org")
	admin, err := s.client.Authenticate(t.Context(), authsdk.SignInRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	hub, err := admin.CreateHub(t.Context(), authsdk.HubRequest{Name: "Robotics"})
	require.NoError(t, err)

	_, err = admin.CreateHub(t.Context(), authsdk.HubRequest{Name: "Robotics"})
	require.True(t, authsdk.IsConflict(err))

	hubs, err := s.client.ListHubs(t.Context())
	require.NoError(t, err)
	require.Len(t, hubs, 1)

	// Plain admins cannot grant temporary admin; superadmins can.
	me, err := admin.CurrentUser(t.Context())
	require.NoError(t, err)
	_, err = admin.GrantTemporaryAdminAccess(t.Context(), me.ID, time.Hour)
	require.True(t, authsdk.IsForbidden(err))

	until, err := root.GrantTemporaryAdminAccess(t.Context(), me.ID, 2*time.Hour)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(2*time.Hour), until, time.Minute)
	require.NoError(t, root.RevokeTemporaryAdminAccess(t.Context(), me.ID))

	_, err = root.GrantTemporaryAdminAccess(t.Context(), "missing", time.Hour)
	require.Equal(t, http.StatusNotFound, statusOf(t, err))

	// Membership flow through the transport.
	m, err := admin.ApplyForMembership(t.Context(), hub.ID)
	require.NoError(t, err)
	require.Equal(t, "pending", m.Status)

	m, err = root.ReviewMembership(t.Context(), m.ID, true)
	require.NoError(t, err)
	require.Equal(t, "approved", m.Status)

	_, err = root.SetMembershipRole(t.Context(), m.ID, "captain")
	require.Equal(t, http.StatusBadRequest, statusOf(t, err))

	// Deactivation ends the admin's sessions.
	require.NoError(t, root.DeactivateUser(t.Context(), me.ID))
	_, err = admin.CurrentUser(t.Context())
	require.True(t, authsdk.IsUnauthorized(err))

	_, err = s.client.SignIn(t.Context(), authsdk.SignInRequest{Email: adminEmail, Password: adminPassword})
	require.True(t, authsdk.IsUnauthorized(err))
}

func TestGrantTemporaryAdmin_HugeDurationIsCapped(t *testing.T) {
	s := newTestServer(t)
	root := s.bootstrap(t)
	created, err := root.CreateAdminUser(t.Context(), authsdk.CreateUserRequest{Email: "frank@example.org", Name: "Frank"})
	require.NoError(t, err)
	id := created.User.ID

	// 5124096 hours overflows time.Duration and would wrap to minutes.
	resp := s.do(t, http.MethodPost, "/v1/admin/users/"+id+"/temporary-admin", root.AccessToken(), `{"durationHours":5124096}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out authsdk.TemporaryAdminResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.WithinDuration(t, time.Now().Add(service.MaxTemporaryAdminDuration), out.Until, time.Minute)

	require.Equal(t, 720*time.Hour, temporaryAdminDuration(1<<62))
	require.Equal(t, 3*time.Hour, temporaryAdminDuration(3))
}

func TestBearerRequired(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/auth/me"},
		{http.MethodPost, "/v1/admin/users"},
		{http.MethodPost, "/v1/hubs"},
		{http.MethodPost, "/v1/mfa/totp/enroll"},
		{http.MethodPost, "/v1/auth/sign-out"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := s.do(t, tc.method, tc.path, "", "{}")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.JSONEq(t, `{"error":"Authentication required"}`, string(body))
		})
	}
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/v1/auth/sign-in", "", `{"email":"a@b.c","role":"admin"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSystemEndpoints(t *testing.T) {
	s := newTestServer(t)

	live, err := s.client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)

	resp := s.do(t, http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(doc), "/v1/auth/sign-in")

	resp = s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	metrics, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(metrics), `route="GET /livez"`)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("create hub: %w", service.ErrHubNameTaken), http.StatusConflict},
		{service.ErrInsufficientPermissions, http.StatusForbidden},
		{service.ErrWeakPassword, http.StatusBadRequest},
		{&service.LockedError{MinutesRemaining: 3}, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, msg := errorStatus(tt.err)
		require.Equal(t, tt.code, code, tt.err.Error())
		require.NotContains(t, msg, "create hub")
		require.NotContains(t, msg, "disk")
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}
