package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerPool(t *testing.T) {
	t.Run("Get and Put", func(t *testing.T) {
		timer1 := GetTimer(time.Second)
		assert.NotNil(t, timer1)
		PutTimer(timer1)

		timer2 := GetTimer(10 * time.Millisecond)
		assert.NotNil(t, timer2)
		<-timer2.C
		PutTimer(timer2)
	})

	t.Run("Reused timer fires with the new duration", func(t *testing.T) {
		timer := GetTimer(time.Hour)
		PutTimer(timer)

		timer = GetTimer(5 * time.Millisecond)
		defer PutTimer(timer)

		select {
		case <-timer.C:
		case <-time.After(time.Second):
			t.Fatal("timer did not fire")
		}
	})
}

func TestSleep(t *testing.T) {
	t.Run("waits the full duration", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns early on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		err := Sleep(ctx, time.Second)
		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("zero duration reports context state", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), 0))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
	})
}
