package provider

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/verichains/devnode/engine"
	"golang.org/x/sync/errgroup"
)

// BlockMiner is the slice of Engine the interval miner needs.
type BlockMiner interface {
	MineBlock(ctx context.Context) (*engine.DebugMineBlockResult, error)
}

// IntervalMiner mines a block every interval and feeds the result to the
// activity logger. It owns exactly one background goroutine.
type IntervalMiner struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

// StartIntervalMiner spawns the mining loop.
func StartIntervalMiner(miner BlockMiner, logger Logger, spec engine.SpecID, interval time.Duration) *IntervalMiner {
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("Started interval mining", "interval", interval)
		for {
			select {
			case <-ticker.C:
				result, err := miner.MineBlock(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					log.Error("Interval mining failed", "err", err)
					return err
				}
				if err := logger.LogIntervalMined(spec, result); err != nil {
					log.Warn("Failed to log interval mined block", "err", err)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	return &IntervalMiner{cancel: cancel, group: group}
}

// Stop cancels the loop and waits for it to exit, returning the loop's
// error, if any.
func (m *IntervalMiner) Stop() error {
	m.cancel()
	err := m.group.Wait()
	log.Info("Stopped interval mining")
	return err
}
