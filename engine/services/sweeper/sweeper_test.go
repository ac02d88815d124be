package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/modules/logger"
)

type countingSweeper struct {
	calls int64
}

func (s *countingSweeper) SweepExpired() (int, error) {
	atomic.AddInt64(&s.calls, 1)
	return 0, nil
}

func TestSweeper_RunUntilCancelled(t *testing.T) {
	var (
		req      = require.New(t)
		proposal = &countingSweeper{}
	)

	sweeper := NewSweeper(proposal, 10*time.Millisecond, logger.NewLogger("test"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// Let a few ticks pass, then stop.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	req.Greater(atomic.LoadInt64(&proposal.calls), int64(0))
}

func TestNewSweeper_DefaultPeriod(t *testing.T) {
	req := require.New(t)

	sweeper := NewSweeper(&countingSweeper{}, 0, logger.NewLogger("test"))
	req.Equal(DefaultSweepPeriod, sweeper.period)
}
