package editor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/editor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quiet = 20 * time.Millisecond

type fakeSaver struct {
	mu    sync.Mutex
	calls []domain.Draft
	err   error
	block chan struct{} // when non-nil, SaveDraft waits on it before recording
}

func (f *fakeSaver) SaveDraft(_ context.Context, _ string, d domain.Draft) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, d)
	f.mu.Unlock()
	return f.err
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSaver) last() domain.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func hydratedSession(saver editor.Saver, onError func(error)) *editor.Session {
	s := editor.NewSession("user-1", quiet, saver, onError)
	s.Hydrate(domain.Draft{Profile: domain.Profile{Name: "Ada", Email: "ada@example.com"}})
	return s
}

func TestMutationBeforeHydrationRejected(t *testing.T) {
	s := editor.NewSession("user-1", quiet, &fakeSaver{}, nil)

	err := s.SetThemePreference("dark")
	assert.ErrorIs(t, err, editor.ErrNotHydrated)

	_, err = s.Snapshot()
	assert.ErrorIs(t, err, editor.ErrNotHydrated)
}

func TestHydrationDoesNotTriggerSave(t *testing.T) {
	saver := &fakeSaver{}
	s := hydratedSession(saver, nil)

	assert.Equal(t, domain.StatusSaved, s.Status())
	time.Sleep(3 * quiet)
	assert.Zero(t, saver.count())
}

func TestDebounceCollapsesBurstIntoOneSave(t *testing.T) {
	saver := &fakeSaver{}
	s := hydratedSession(saver, nil)

	for _, name := range []string{"A", "Ad", "Ada L"} {
		n := name
		require.NoError(t, s.Mutate(func(d *domain.Draft) error {
			d.Profile.Name = n
			return nil
		}))
	}
	assert.Equal(t, domain.StatusUnsaved, s.Status())

	require.Eventually(t, func() bool {
		return s.Status() == domain.StatusSaved
	}, time.Second, quiet/4)

	assert.Equal(t, 1, saver.count())
	assert.Equal(t, "Ada L", saver.last().Profile.Name)
}

func TestAtMostOneSaveInFlight(t *testing.T) {
	saver := &fakeSaver{block: make(chan struct{})}
	s := hydratedSession(saver, nil)

	require.NoError(t, s.SetThemePreference("dark"))
	require.Eventually(t, func() bool {
		return s.Status() == domain.StatusSaving
	}, time.Second, quiet/4)

	// mutate while the first save is stuck; its timer fires mid-flight
	require.NoError(t, s.SetThemePreference("retro"))
	time.Sleep(3 * quiet)
	assert.Zero(t, saver.count(), "second save must not start while the first is in flight")

	close(saver.block)

	require.Eventually(t, func() bool {
		return s.Status() == domain.StatusSaved
	}, time.Second, quiet/4)
	assert.Equal(t, 2, saver.count())
	assert.Equal(t, "retro", saver.last().ThemePreference)
}

func TestSaveFailureLeavesUnsavedWithoutRetry(t *testing.T) {
	saver := &fakeSaver{err: errors.New("connection refused")}
	errCh := make(chan error, 1)
	s := hydratedSession(saver, func(err error) { errCh <- err })

	require.NoError(t, s.SetThemePreference("dark"))

	select {
	case err := <-errCh:
		assert.EqualError(t, err, "connection refused")
	case <-time.After(time.Second):
		t.Fatal("save failure was never reported")
	}

	assert.Equal(t, domain.StatusUnsaved, s.Status())
	time.Sleep(3 * quiet)
	assert.Equal(t, 1, saver.count(), "failed saves must not be retried automatically")
}

func TestFlushSavesSynchronously(t *testing.T) {
	saver := &fakeSaver{}
	s := hydratedSession(saver, nil)

	require.NoError(t, s.SetThemePreference("dark"))
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, 1, saver.count())
	assert.Equal(t, domain.StatusSaved, s.Status())

	// already saved: flush is a no-op
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 1, saver.count())
}

func TestFlushPropagatesSaverError(t *testing.T) {
	saver := &fakeSaver{err: errors.New("write failed")}
	s := hydratedSession(saver, nil)

	require.NoError(t, s.SetThemePreference("dark"))
	err := s.Flush(context.Background())
	assert.EqualError(t, err, "write failed")
	assert.Equal(t, domain.StatusUnsaved, s.Status())
}

func TestStaleSecondHydrationDoesNotClobberEdits(t *testing.T) {
	saver := &fakeSaver{}
	s := hydratedSession(saver, nil)

	require.NoError(t, s.SetThemePreference("dark"))

	// a second hydration that lost the first-load race delivers a stale
	// baseline; it must not replace the acknowledged edit
	s.Hydrate(domain.Draft{Profile: domain.Profile{Name: "Ada", Email: "ada@example.com"}})

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "dark", snap.ThemePreference)

	require.Eventually(t, func() bool {
		return saver.count() == 1
	}, time.Second, quiet/4)
	assert.Equal(t, "dark", saver.last().ThemePreference)
}

func TestFlushAtDebounceDeadlineSavesOnce(t *testing.T) {
	// Flush racing the debounce timer must end with exactly one save: either
	// the timer's save wins and the flush is a no-op, or the flush saves and
	// the expired timer's follow-up request is dropped.
	for i := 0; i < 10; i++ {
		saver := &fakeSaver{}
		s := hydratedSession(saver, nil)

		require.NoError(t, s.SetThemePreference("dark"))
		time.Sleep(quiet - 2*time.Millisecond)
		require.NoError(t, s.Flush(context.Background()))

		time.Sleep(2 * quiet)
		assert.Equal(t, 1, saver.count(), "an already-flushed draft must not be saved again")
		s.Close()
	}
}

func TestCloseCancelsPendingAutosave(t *testing.T) {
	saver := &fakeSaver{}
	s := hydratedSession(saver, nil)

	require.NoError(t, s.SetThemePreference("dark"))
	s.Close()

	time.Sleep(3 * quiet)
	assert.Zero(t, saver.count())
	assert.ErrorIs(t, s.SetThemePreference("retro"), editor.ErrClosed)
}

func TestUpsertProjectAssignsStableID(t *testing.T) {
	saver := &fakeSaver{}
	s := hydratedSession(saver, nil)

	created, err := s.UpsertProject(domain.Project{Title: "Tracker"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Description = "CLI habit tracker"
	updated, err := s.UpsertProject(created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "CLI habit tracker", snap.Projects[0].Description)
}

func TestRemoveMissingItem(t *testing.T) {
	saver := &fakeSaver{}
	s := hydratedSession(saver, nil)

	assert.ErrorIs(t, s.RemoveSkill("Rust"), editor.ErrNotFound)
	assert.ErrorIs(t, s.RemoveProject("nope"), editor.ErrNotFound)
}

func TestManagerReusesAndClosesSessions(t *testing.T) {
	m := editor.NewManager(quiet, &fakeSaver{}, nil)

	a := m.GetOrCreate("user-1")
	b := m.GetOrCreate("user-1")
	assert.Same(t, a, b)

	_, ok := m.Get("user-2")
	assert.False(t, ok)

	m.Close("user-1")
	_, ok = m.Get("user-1")
	assert.False(t, ok)

	a.Hydrate(domain.Draft{})
	assert.ErrorIs(t, a.SetThemePreference("dark"), editor.ErrClosed)
}
