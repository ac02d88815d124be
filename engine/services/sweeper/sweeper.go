package sweeper

import (
	"context"
	"time"

	"github.com/ajolabs/ajo-multisig/engine/modules/logger"
)

const (
	DefaultSweepPeriod = time.Minute
)

// ProposalSweeper is the slice of the proposal service the sweeper needs.
type ProposalSweeper interface {
	SweepExpired() (int, error)
}

// Sweeper periodically closes out proposals that never reached quorum in
// time. It is a cleanup pass for idle proposals, not the authority on expiry;
// the sign/execute paths enforce the deadline on every touch regardless.
type Sweeper struct {
	proposals ProposalSweeper
	period    time.Duration
	logger    logger.Logger
}

func NewSweeper(proposals ProposalSweeper, period time.Duration, log logger.Logger) *Sweeper {
	if period <= 0 {
		period = DefaultSweepPeriod
	}
	return &Sweeper{
		proposals: proposals,
		period:    period,
		logger:    log,
	}
}

// Run blocks, sweeping on a fixed interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.proposals.SweepExpired()
			if err != nil {
				s.logger.Log("sweep failed: %v", err)
				continue
			}
			if count > 0 {
				s.logger.Log("sweep expired %d proposals", count)
			}
		}
	}
}
