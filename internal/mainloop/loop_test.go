package mainloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()

	l := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-l.Stopped()
	})
	return l, cancel
}

func TestLoopRunsTasksInPostOrder(t *testing.T) {
	l, _ := startLoop(t)

	var mu sync.Mutex
	got := []int{}
	for i := 0; i < 100; i++ {
		v := i
		require.True(t, l.Post(func() {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		}))
	}
	require.NoError(t, l.Do(context.Background(), func() {}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoopSurvivesPanickingTask(t *testing.T) {
	l, _ := startLoop(t)

	l.Post(func() { panic("boom") })

	ran := false
	require.NoError(t, l.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoopTasksMayPostMoreTasks(t *testing.T) {
	l, _ := startLoop(t)

	done := make(chan struct{})
	l.Post(func() {
		l.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested task did not run")
	}
}

func TestLoopRejectsWorkAfterStop(t *testing.T) {
	l, cancel := startLoop(t)
	cancel()
	<-l.Stopped()

	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrStopped)
}
