package autosave_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sokki/pkg/autosave"
)

func TestScheduler_LatestWins(t *testing.T) {
	t.Parallel()

	store := autosave.NewStore(t.TempDir())
	scheduler := autosave.NewScheduler(store, autosave.WithDebounce(20*time.Millisecond))

	scheduler.Schedule("one", "/a.md")
	scheduler.Schedule("two", "/a.md")
	scheduler.Schedule("three", "/a.md")
	assert.True(t, scheduler.Pending())

	require.Eventually(t, func() bool {
		snapshot, err := store.Load(context.Background())
		return err == nil && snapshot.Text == "three"
	}, time.Second, 5*time.Millisecond)
	assert.False(t, scheduler.Pending())
}

func TestScheduler_Cancel(t *testing.T) {
	t.Parallel()

	store := autosave.NewStore(t.TempDir())
	scheduler := autosave.NewScheduler(store, autosave.WithDebounce(10*time.Millisecond))

	scheduler.Schedule("dirty", "")
	scheduler.Cancel()
	assert.False(t, scheduler.Pending())

	time.Sleep(50 * time.Millisecond)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, autosave.ErrNoSnapshot)
}

func TestScheduler_Flush(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := autosave.NewStore(t.TempDir())
	scheduler := autosave.NewScheduler(store, autosave.WithDebounce(time.Hour))

	require.NoError(t, scheduler.Flush(ctx), "nothing pending is not an error")

	scheduler.Schedule("now", "/b.md")
	require.NoError(t, scheduler.Flush(ctx))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "now", snapshot.Text)
	assert.Equal(t, "/b.md", snapshot.CurrentPath)
}

func TestScheduler_ReportsErrors(t *testing.T) {
	t.Parallel()

	// A regular file where the directory should be makes every write fail.
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	var failures atomic.Int32
	scheduler := autosave.NewScheduler(autosave.NewStore(blocker),
		autosave.WithDebounce(time.Millisecond),
		autosave.WithErrorHandler(func(err error) {
			if err != nil {
				failures.Add(1)
			}
		}),
	)
	scheduler.Schedule("text", "")

	require.Eventually(t, func() bool { return failures.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_ErrorHandlerMayCancel(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	handled := make(chan struct{})
	var scheduler *autosave.Scheduler
	scheduler = autosave.NewScheduler(autosave.NewStore(blocker),
		autosave.WithDebounce(time.Millisecond),
		autosave.WithErrorHandler(func(error) {
			scheduler.Cancel()
			close(handled)
		}),
	)
	scheduler.Schedule("text", "")

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("error handler did not return")
	}
}

func TestScheduler_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := autosave.NewStore(t.TempDir())
	scheduler := autosave.NewScheduler(store, autosave.WithDebounce(time.Hour))

	require.NoError(t, store.Save(ctx, "stored", ""))
	scheduler.Schedule("pending", "")
	require.NoError(t, scheduler.Clear(ctx))
	assert.False(t, scheduler.Pending())

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, autosave.ErrNoSnapshot)
}

func TestScheduler_ClearNeverLeavesLateWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := autosave.NewStore(t.TempDir())
	scheduler := autosave.NewScheduler(store, autosave.WithDebounce(time.Microsecond))

	// Each round lets the debounce timer race the clear. Whatever the timing,
	// a write that started before Clear finishes before the snapshot is
	// removed, and later callbacks see the write was dropped.
	for round := range 200 {
		scheduler.Schedule("dirty", "")
		time.Sleep(time.Duration(round%5) * 10 * time.Microsecond)
		require.NoError(t, scheduler.Clear(ctx))

		_, err := store.Load(ctx)
		require.ErrorIs(t, err, autosave.ErrNoSnapshot, "round %d", round)
	}

	time.Sleep(20 * time.Millisecond)
	_, err := store.Load(ctx)
	require.ErrorIs(t, err, autosave.ErrNoSnapshot)
}
