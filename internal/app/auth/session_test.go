package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitpet/internal/app/api"
	"habitpet/internal/app/lifecycle"
	"habitpet/internal/app/store"
	"habitpet/internal/app/user"
	"habitpet/internal/pkg/errs"
)

type mockBackend struct {
	loginFn  func(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error)
	signUpFn func(ctx context.Context, req api.SignUpRequest) (api.AuthResponse, error)
	googleFn func(ctx context.Context, req api.GoogleLoginRequest) (api.AuthResponse, error)
	logoutFn func(ctx context.Context) error
}

func (m *mockBackend) Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return api.AuthResponse{}, nil
}

func (m *mockBackend) SignUp(ctx context.Context, req api.SignUpRequest) (api.AuthResponse, error) {
	if m.signUpFn != nil {
		return m.signUpFn(ctx, req)
	}
	return api.AuthResponse{}, nil
}

func (m *mockBackend) LoginWithGoogle(ctx context.Context, req api.GoogleLoginRequest) (api.AuthResponse, error) {
	if m.googleFn != nil {
		return m.googleFn(ctx, req)
	}
	return api.AuthResponse{}, nil
}

func (m *mockBackend) Logout(ctx context.Context) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx)
	}
	return nil
}

type mockCoordinator struct {
	mu       sync.Mutex
	callback func()
	armed    bool
}

func (m *mockCoordinator) Register(cb func()) { m.callback = cb }
func (m *mockCoordinator) Arm()               { m.mu.Lock(); m.armed = true; m.mu.Unlock() }
func (m *mockCoordinator) Disarm()            { m.mu.Lock(); m.armed = false; m.mu.Unlock() }

func (m *mockCoordinator) fire() {
	m.mu.Lock()
	m.armed = false
	m.mu.Unlock()
	m.callback()
}

type recordingListener struct {
	mu    sync.Mutex
	snaps []lifecycle.Snapshot
}

func (r *recordingListener) OnIdentityChange(s lifecycle.Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recordingListener) last() lifecycle.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func okLogin(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
	return api.AuthResponse{ID: 11, Email: req.Email, Name: "Ann", Role: "USER", AccessToken: "at", RefreshToken: "rt"}, nil
}

func newService(b *mockBackend) (*Service, *store.Session, *mockCoordinator, *recordingListener) {
	session := store.NewSession(store.NewMemoryStore())
	coord := &mockCoordinator{}
	svc := New(b, session, coord)
	l := &recordingListener{}
	svc.Subscribe(l)
	return svc, session, coord, l
}

func TestResumeSession(t *testing.T) {
	ctx := context.Background()

	t.Run("token and identity", func(t *testing.T) {
		svc, session, coord, l := newService(&mockBackend{})
		require.NoError(t, session.SaveTokens(ctx, "at", "rt"))
		require.NoError(t, session.SaveIdentity(ctx, user.Identity{ID: 5, Name: "Bo"}))

		assert.True(t, svc.ResumeSession(ctx))
		assert.Equal(t, Authenticated, svc.State().Status)
		assert.Equal(t, int64(5), svc.State().Identity.ID)
		assert.True(t, coord.armed)
		assert.True(t, l.last().Present)
	})

	t.Run("token without identity is cleared", func(t *testing.T) {
		svc, session, coord, l := newService(&mockBackend{})
		require.NoError(t, session.SaveTokens(ctx, "at", "rt"))

		assert.False(t, svc.ResumeSession(ctx))
		assert.Equal(t, Unauthenticated, svc.State().Status)
		assert.False(t, coord.armed)
		assert.False(t, l.last().Present)

		tok, _ := session.AccessToken(ctx)
		assert.Empty(t, tok)
	})
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	svc, session, coord, l := newService(&mockBackend{loginFn: okLogin})

	var during Status
	svc.backend.(*mockBackend).loginFn = func(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
		during = svc.State().Status
		return okLogin(ctx, req)
	}

	require.True(t, svc.Login(ctx, api.LoginRequest{Email: "ann@x.io", Password: "pw"}))

	assert.Equal(t, Authenticating, during)
	st := svc.State()
	assert.Equal(t, Authenticated, st.Status)
	assert.Equal(t, int64(11), st.Identity.ID)
	assert.True(t, coord.armed)

	tok, _ := session.AccessToken(ctx)
	assert.Equal(t, "at", tok)
	id, ok, _ := session.Identity(ctx)
	require.True(t, ok)
	assert.Equal(t, "ann@x.io", id.Email)

	snap := l.last()
	assert.True(t, snap.Present)
	assert.Equal(t, svc.Current(), snap)
}

func TestLogin_FailureKeepsMessage(t *testing.T) {
	ctx := context.Background()
	svc, _, coord, _ := newService(&mockBackend{
		loginFn: func(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
			return api.AuthResponse{}, &errs.HTTPError{Status: http.StatusBadRequest, Message: "Incorrect email or password."}
		},
	})

	assert.False(t, svc.Login(ctx, api.LoginRequest{}))
	st := svc.State()
	assert.Equal(t, Failed, st.Status)
	assert.Equal(t, "Incorrect email or password.", st.LastError)
	assert.False(t, coord.armed)
	assert.False(t, svc.Current().Present)

	svc.ClearError()
	assert.Equal(t, Unauthenticated, svc.State().Status)
	assert.Empty(t, svc.State().LastError)
	assert.False(t, svc.Current().Present)
}

func TestClearError_AfterAutoLogoutKeepsEpoch(t *testing.T) {
	ctx := context.Background()
	svc, _, coord, l := newService(&mockBackend{loginFn: okLogin})
	require.True(t, svc.Login(ctx, api.LoginRequest{Email: "a"}))

	coord.fire()
	epoch := l.last().Epoch

	svc.ClearError()
	st := svc.State()
	assert.Equal(t, Unauthenticated, st.Status)
	assert.Empty(t, st.LastError)
	assert.Equal(t, epoch, l.last().Epoch)
}

func TestUpdateIdentity(t *testing.T) {
	ctx := context.Background()
	svc, session, _, l := newService(&mockBackend{loginFn: okLogin})

	assert.False(t, svc.UpdateIdentity(ctx, user.Identity{ID: 11, NickName: "Annie"}), "signed out")

	require.True(t, svc.Login(ctx, api.LoginRequest{Email: "ann@x.io"}))
	calls := len(l.snaps)

	updated := svc.State().Identity
	updated.NickName = "Annie"
	require.True(t, svc.UpdateIdentity(ctx, updated))
	assert.Equal(t, "Annie", svc.State().Identity.DisplayName())
	assert.Len(t, l.snaps, calls)

	id, ok, err := session.Identity(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Annie", id.NickName)

	assert.False(t, svc.UpdateIdentity(ctx, user.Identity{ID: 12, NickName: "Other"}))
	assert.Equal(t, int64(11), svc.State().Identity.ID)
}

func TestLogin_GenericMessage(t *testing.T) {
	svc, _, _, _ := newService(&mockBackend{
		loginFn: func(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
			return api.AuthResponse{}, errors.New("dial tcp: refused")
		},
	})

	svc.Login(context.Background(), api.LoginRequest{})
	assert.Equal(t, genericFailureMessage, svc.State().LastError)
}

func TestLogin_RefusedWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc, _, _, _ := newService(&mockBackend{
		loginFn: func(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
			close(entered)
			<-release
			return okLogin(ctx, req)
		},
	})

	done := make(chan bool)
	go func() { done <- svc.Login(context.Background(), api.LoginRequest{Email: "a"}) }()

	<-entered
	assert.False(t, svc.Login(context.Background(), api.LoginRequest{Email: "b"}))
	close(release)

	assert.True(t, <-done)
	assert.Equal(t, "a", svc.State().Identity.Email)
}

func TestSignUp_ThenLogin(t *testing.T) {
	var calls []string
	svc, _, _, _ := newService(&mockBackend{
		signUpFn: func(ctx context.Context, req api.SignUpRequest) (api.AuthResponse, error) {
			calls = append(calls, "signup:"+req.Email)
			return api.AuthResponse{}, nil
		},
		loginFn: func(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
			calls = append(calls, "login:"+req.Email+":"+req.Password)
			return okLogin(ctx, req)
		},
	})

	require.True(t, svc.SignUp(context.Background(), api.SignUpRequest{Email: "n@x.io", Password: "pw", Name: "N"}))
	assert.Equal(t, []string{"signup:n@x.io", "login:n@x.io:pw"}, calls)
	assert.Equal(t, Authenticated, svc.State().Status)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newService(&mockBackend{
		signUpFn: func(ctx context.Context, req api.SignUpRequest) (api.AuthResponse, error) {
			return api.AuthResponse{}, &errs.HTTPError{Status: http.StatusConflict, Message: "This email is already registered."}
		},
		loginFn: func(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
			t.Fatal("login must not run")
			return api.AuthResponse{}, nil
		},
	})

	assert.False(t, svc.SignUp(context.Background(), api.SignUpRequest{}))
	assert.Equal(t, "This email is already registered.", svc.State().LastError)
}

func TestLoginWithGoogle_IncompleteResponse(t *testing.T) {
	svc, _, _, _ := newService(&mockBackend{
		googleFn: func(ctx context.Context, req api.GoogleLoginRequest) (api.AuthResponse, error) {
			return api.AuthResponse{ID: 3}, nil
		},
	})

	assert.False(t, svc.LoginWithGoogle(context.Background(), api.GoogleLoginRequest{IDToken: "x"}))
	assert.Equal(t, Failed, svc.State().Status)
}

func TestLogout_AlwaysClears(t *testing.T) {
	ctx := context.Background()
	svc, session, coord, l := newService(&mockBackend{
		loginFn:  okLogin,
		logoutFn: func(ctx context.Context) error { return errors.New("offline") },
	})
	require.True(t, svc.Login(ctx, api.LoginRequest{Email: "a"}))

	svc.Logout(ctx)

	assert.Equal(t, State{Status: Unauthenticated}, svc.State())
	assert.False(t, coord.armed)
	assert.False(t, l.last().Present)
	tok, _ := session.AccessToken(ctx)
	assert.Empty(t, tok)
}

func TestAutoLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, coord, l := newService(&mockBackend{loginFn: okLogin})
	require.True(t, svc.Login(ctx, api.LoginRequest{Email: "a"}))
	before := l.last().Epoch

	coord.fire()

	st := svc.State()
	assert.Equal(t, Unauthenticated, st.Status)
	assert.Equal(t, AutoLogoutMessage, st.LastError)
	assert.False(t, l.last().Present)
	assert.Greater(t, l.last().Epoch, before)
}

func TestEpochIncreasesPerIdentityChange(t *testing.T) {
	ctx := context.Background()
	svc, _, _, l := newService(&mockBackend{loginFn: okLogin})

	svc.ResumeSession(ctx)
	require.True(t, svc.Login(ctx, api.LoginRequest{Email: "a"}))
	svc.Logout(ctx)
	require.True(t, svc.Login(ctx, api.LoginRequest{Email: "b"}))

	var epochs []uint64
	for _, s := range l.snaps {
		epochs = append(epochs, s.Epoch)
	}
	assert.IsIncreasing(t, epochs)
	assert.True(t, l.last().Present)
}
