package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/hubsite/pkg/cryptox"
	"github.com/aussiebroadwan/hubsite/pkg/idx"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery"

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingNotifier keeps every notification it was handed.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) last(t *testing.T) Notification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	ctx      context.Context
	store    store.Store
	clock    *testClock
	codec    *jwtx.Codec
	notifier *recordingNotifier

	sessions *SessionService
	resolver *Resolver
	resets   *PasswordResetService
	admin    *AdminService
	hubs     *HubService
	mfa      *MFAService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &testClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	codec, err := jwtx.NewCodec("test-signing-secret", jwtx.WithClock(clock.Now))
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	resolver := &Resolver{Store: st, Codec: codec, Now: clock.Now, RequireSession: true}

	return &fixture{
		ctx:      slogx.WithContext(context.Background(), slogx.Discard()),
		store:    st,
		clock:    clock,
		codec:    codec,
		notifier: notifier,
		sessions: &SessionService{
			Store: st,
			Codec: codec,
			Guard: &AccountGuard{},
			Now:   clock.Now,
		},
		resolver: resolver,
		resets: &PasswordResetService{
			Store:    st,
			Notifier: notifier,
			Now:      clock.Now,
		},
		admin: &AdminService{
			Store:         st,
			Resolver:      resolver,
			Notifier:      notifier,
			SuperAdminKey: "bootstrap-key",
			Now:           clock.Now,
		},
		hubs: &HubService{Store: st, Resolver: resolver, Now: clock.Now},
		mfa:  &MFAService{Store: st, Now: clock.Now},
	}
}

// seedUser stores an active user with testPassword.
func (f *fixture) seedUser(t *testing.T, email string, role domain.GlobalRole) domain.User {
	t.Helper()

	hash, err := cryptox.NewPasswordHash(testPassword)
	require.NoError(t, err)

	now := f.clock.Now()
	u := domain.User{
		ID:           idx.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         email,
		GlobalRole:   role,
		IsActive:     true,
		JoinedAt:     now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.store.Users().CreateUser(f.ctx, u))
	return u
}

// signIn signs u in with testPassword and returns the token pair.
func (f *fixture) signIn(t *testing.T, u domain.User) domain.TokenPair {
	t.Helper()
	res, err := f.sessions.SignIn(f.ctx, SignInInput{Email: u.Email, Password: testPassword})
	require.NoError(t, err)
	return res.Tokens
}

func (f *fixture) seedHub(t *testing.T, name string) domain.Hub {
	t.Helper()
	now := f.clock.Now()
	h := domain.Hub{ID: idx.New(), Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.store.Hubs().CreateHub(f.ctx, h))
	return h
}

func (f *fixture) seedMembership(t *testing.T, userID, hubID string, role domain.HubRole, status domain.MembershipStatus) domain.HubMembership {
	t.Helper()
	now := f.clock.Now()
	m := domain.HubMembership{
		ID:        idx.New(),
		UserID:    userID,
		HubID:     hubID,
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Memberships().CreateMembership(f.ctx, m))
	return m
}

func (f *fixture) user(t *testing.T, id string) domain.User {
	t.Helper()
	u, err := f.store.Users().GetUserByID(f.ctx, id)
	require.NoError(t, err)
	return u
}
