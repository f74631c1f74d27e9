package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitpet/internal/app/user"
	"habitpet/internal/pkg/errs"
)

type fakeSource struct {
	mu   sync.Mutex
	snap Snapshot
}

func (f *fakeSource) Current() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// switchTo moves to a new identity (0 means signed out) and returns the snapshot.
func (f *fakeSource) switchTo(id int64) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = Snapshot{
		Identity: user.Identity{ID: id},
		Present:  id != 0,
		Epoch:    f.snap.Epoch + 1,
	}
	return f.snap
}

func signIn(src *fakeSource, c interface{ OnIdentityChange(Snapshot) }, id int64) {
	c.OnIdentityChange(src.switchTo(id))
}

func TestCache_LoadsOnIdentity(t *testing.T) {
	src := &fakeSource{}
	c := New(src, Options[int]{
		Name:  "test",
		Fetch: func(ctx context.Context) (int, error) { return 7, nil },
	})

	_, ok := c.Get()
	assert.False(t, ok)

	signIn(src, c, 1)
	c.Wait()

	v, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, 7, v)
	assert.False(t, c.Loading())
}

func TestCache_CreatesOnceOnNotFound(t *testing.T) {
	src := &fakeSource{}
	var fetches, creates atomic.Int32
	created := atomic.Bool{}

	c := New(src, Options[string]{
		Name: "test",
		Fetch: func(ctx context.Context) (string, error) {
			fetches.Add(1)
			if !created.Load() {
				return "", &errs.HTTPError{Status: http.StatusNotFound}
			}
			return "fresh", nil
		},
		Create: func(ctx context.Context) error {
			creates.Add(1)
			created.Store(true)
			return nil
		},
	})

	signIn(src, c, 1)
	c.Wait()

	v, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, int32(2), fetches.Load())
	assert.Equal(t, int32(1), creates.Load())
}

func TestCache_NotFoundAfterCreateLeavesEmpty(t *testing.T) {
	src := &fakeSource{}
	var creates atomic.Int32

	c := New(src, Options[string]{
		Name: "test",
		Fetch: func(ctx context.Context) (string, error) {
			return "", &errs.HTTPError{Status: http.StatusNotFound}
		},
		Create: func(ctx context.Context) error {
			creates.Add(1)
			return nil
		},
	})

	signIn(src, c, 1)
	c.Wait()

	_, ok := c.Get()
	assert.False(t, ok)
	assert.True(t, errs.IsNotFound(c.LastError()))
	assert.Equal(t, int32(1), creates.Load())
}

func TestCache_OtherFailuresDoNotCreate(t *testing.T) {
	src := &fakeSource{}
	c := New(src, Options[int]{
		Name:   "test",
		Fetch:  func(ctx context.Context) (int, error) { return 0, &errs.HTTPError{Status: 500} },
		Create: func(ctx context.Context) error { t.Error("create must not run"); return nil },
	})

	signIn(src, c, 1)
	c.Wait()

	_, ok := c.Get()
	assert.False(t, ok)
	assert.Equal(t, errs.KindTransient, errs.Classify(c.LastError()))
}

func TestCache_ResetIsSynchronous(t *testing.T) {
	src := &fakeSource{}
	c := New(src, Options[int]{
		Name:  "test",
		Fetch: func(ctx context.Context) (int, error) { return 1, nil },
	})

	signIn(src, c, 1)
	c.Wait()
	_, ok := c.Get()
	require.True(t, ok)

	signIn(src, c, 0)
	_, ok = c.Get()
	assert.False(t, ok)
	assert.Nil(t, c.LastError())
}

func TestCache_DiscardsStaleFetch(t *testing.T) {
	src := &fakeSource{}
	release := make(chan struct{})
	started := make(chan struct{}, 2)

	c := New(src, Options[int64]{
		Name: "test",
		Fetch: func(ctx context.Context) (int64, error) {
			snap := src.Current()
			started <- struct{}{}
			if snap.Identity.ID == 1 {
				<-release
			}
			return snap.Identity.ID * 100, nil
		},
	})

	signIn(src, c, 1)
	<-started

	// user 1 signs out and user 2 signs in while user 1's fetch is pending
	signIn(src, c, 0)
	signIn(src, c, 2)
	<-started

	close(release)
	c.Wait()

	v, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, int64(200), v)
}

func TestCache_ResetDuringFetchStaysEmpty(t *testing.T) {
	src := &fakeSource{}
	release := make(chan struct{})
	started := make(chan struct{})

	c := New(src, Options[int]{
		Name: "test",
		Fetch: func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		},
	})

	signIn(src, c, 1)
	<-started
	signIn(src, c, 0)
	close(release)
	c.Wait()

	_, ok := c.Get()
	assert.False(t, ok)
}

func TestCache_IgnoresOlderSnapshot(t *testing.T) {
	src := &fakeSource{}
	c := New(src, Options[int]{
		Name:  "test",
		Fetch: func(ctx context.Context) (int, error) { return 1, nil },
	})

	old := src.switchTo(1)
	signIn(src, c, 2)
	c.Wait()

	c.OnIdentityChange(old)
	_, ok := c.Get()
	assert.True(t, ok)
}

func TestCache_RefreshKeepsValueOnFailure(t *testing.T) {
	src := &fakeSource{}
	fail := atomic.Bool{}
	c := New(src, Options[int]{
		Name: "test",
		Fetch: func(ctx context.Context) (int, error) {
			if fail.Load() {
				return 0, errors.New("offline")
			}
			return 5, nil
		},
	})

	assert.False(t, c.Refresh(context.Background()), "no identity yet")

	signIn(src, c, 1)
	c.Wait()

	fail.Store(true)
	assert.False(t, c.Refresh(context.Background()))

	v, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Error(t, c.LastError())
}

func TestCache_OlderLoadDoesNotOverwriteNewerRefresh(t *testing.T) {
	src := &fakeSource{}
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	c := New(src, Options[string]{
		Name: "test",
		Fetch: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-release
				return "before-mutation", nil
			}
			return "after-mutation", nil
		},
	})

	signIn(src, c, 1)
	<-started

	require.True(t, c.Refresh(context.Background()))
	close(release)
	c.Wait()

	v, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, "after-mutation", v)
}

func TestCache_PatchWinsOverLoadInFlight(t *testing.T) {
	src := &fakeSource{}
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	c := New(src, Options[int]{
		Name: "test",
		Fetch: func(ctx context.Context) (int, error) {
			if calls.Add(1) == 2 {
				close(started)
				<-release
			}
			return 10, nil
		},
	})

	signIn(src, c, 1)
	c.Wait()

	done := make(chan bool)
	go func() { done <- c.Refresh(context.Background()) }()
	<-started

	require.True(t, c.Patch(func(v int) int { return v + 5 }))
	close(release)
	assert.False(t, <-done)

	v, _ := c.Get()
	assert.Equal(t, 15, v)
}

func TestCache_NormalizeAndPatch(t *testing.T) {
	src := &fakeSource{}
	c := New(src, Options[[]int]{
		Name:      "test",
		Fetch:     func(ctx context.Context) ([]int, error) { return []int{3, 1}, nil },
		Normalize: func(v []int) []int { return append(v, 0) },
	})

	assert.False(t, c.Patch(func(v []int) []int { return nil }))

	signIn(src, c, 1)
	c.Wait()

	v, _ := c.Get()
	assert.Equal(t, []int{3, 1, 0}, v)

	assert.True(t, c.Patch(func(v []int) []int { return v[:1] }))
	v, _ = c.Get()
	assert.Equal(t, []int{3}, v)
}

func TestAttempt(t *testing.T) {
	logger := zerolog.Nop()
	var o Outcome

	ok := Attempt(context.Background(), logger, &o, "fail", func(ctx context.Context) error {
		return &errs.HTTPError{Status: 400, Message: "Not enough coins."}
	})
	assert.False(t, ok)
	assert.Equal(t, "Not enough coins.", o.Message("generic"))

	ok = Attempt(context.Background(), logger, &o, "panic", func(ctx context.Context) error {
		panic("boom")
	})
	assert.False(t, ok)
	assert.Equal(t, "generic", o.Message("generic"))

	ok = Attempt(context.Background(), logger, &o, "expired", func(ctx context.Context) error {
		return errs.ErrAuthExpired
	})
	assert.False(t, ok)
	assert.Empty(t, o.Message("generic"))

	ok = Attempt(context.Background(), logger, &o, "ok", func(ctx context.Context) error { return nil })
	assert.True(t, ok)
	assert.NoError(t, o.Err())
}
