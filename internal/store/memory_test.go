package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/statesquiz/internal/game"
	"github.com/robalobadob/statesquiz/internal/regions"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := game.New(regions.Default(), "p", t0)

	require.NoError(t, st.Save(ctx, g))
	got, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, st.Len())

	require.NoError(t, st.Delete(ctx, g.ID))
	_, err = st.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, st.Delete(ctx, "unknown"))
}

func TestUpdateSerialisesSubmissions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := game.New(regions.Default(), "p", t0)
	require.NoError(t, st.Save(ctx, g))

	names := regions.Default().Names()
	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			err := st.Update(ctx, g.ID, func(g *game.Game) error {
				_, _, _ = g.Submit(name, t0)
				return nil
			})
			assert.NoError(t, err)
		}(n)
	}
	wg.Wait()

	assert.Len(t, g.Guessed, len(names))
	assert.True(t, g.Complete)
}

func TestUpdateErrors(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	err := st.Update(ctx, "missing", func(*game.Game) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	g := game.New(nil, "", t0)
	require.NoError(t, st.Save(ctx, g))
	boom := errors.New("boom")
	err = st.Update(ctx, g.ID, func(*game.Game) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := NewMemoryStore()

	assert.ErrorIs(t, st.Save(ctx, game.New(nil, "", t0)), context.Canceled)
	_, err := st.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepEvictsIdleGames(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	old := game.New(nil, "old", t0)
	fresh := game.New(nil, "fresh", t0)
	_, _, _ = fresh.Submit("goa", t0.Add(50*time.Minute))
	require.NoError(t, st.Save(ctx, old))
	require.NoError(t, st.Save(ctx, fresh))

	n := st.Sweep(ctx, 30*time.Minute, t0.Add(time.Hour))
	assert.Equal(t, 1, n)
	_, err := st.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := NewMemoryStore()
	require.NoError(t, st.Save(ctx, game.New(nil, "", time.Now().Add(-time.Hour))))

	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, st, 5*time.Millisecond, time.Minute)
		close(done)
	}()

	require.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
