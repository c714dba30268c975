package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/funny-falcon/slotpool/pool"
)

var (
	errLeak    = errors.New("stress: pool lost slots")
	errReuse   = errors.New("stress: freed slots not reused last-in first-out")
	errCorrupt = errors.New("stress: slot content changed while live")
)

type sample struct {
	Worker int64
	Seq    int64
	Check  uint64
}

func checksum(worker, seq int64) uint64 {
	h := uint64(worker)*0x9E3779B97F4A7C15 ^ uint64(seq)
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	return h ^ h>>32
}

// stress runs one pool per worker; pools are never shared between
// goroutines, so none of them needs a lock.
func stress(ctx context.Context, cfg Config, log *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		w := w
		g.Go(func() error {
			return stressWorker(ctx, int64(w), cfg, log.With(zap.Int("worker", w)))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("stress passed",
		zap.Int("workers", cfg.Workers),
		zap.Int("rounds", cfg.Rounds),
		zap.Int("capacity", cfg.Capacity),
	)
	return nil
}

func stressWorker(ctx context.Context, worker int64, cfg Config, log *zap.Logger) (err error) {
	p, err := pool.New[sample](cfg.Capacity, cfg.options(log)...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, p.Close())
	}()

	rng := rand.New(rand.NewSource(worker + 1))
	live := make([]*sample, 0, cfg.Capacity)
	seq := int64(0)
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for {
			seq++
			s, err := p.Allocate(func(s *sample) error {
				s.Worker, s.Seq, s.Check = worker, seq, checksum(worker, seq)
				return nil
			})
			if errors.Is(err, pool.ErrExhausted) {
				break
			}
			if err != nil {
				return err
			}
			live = append(live, s)
		}
		if len(live) != cfg.Capacity {
			return fmt.Errorf("%w: round %d got %d of %d", errLeak, round, len(live), cfg.Capacity)
		}
		for _, s := range live {
			if s.Worker != worker || s.Check != checksum(s.Worker, s.Seq) {
				return fmt.Errorf("%w: round %d seq %d", errCorrupt, round, s.Seq)
			}
		}

		rng.Shuffle(len(live), func(i, j int) {
			live[i], live[j] = live[j], live[i]
		})
		k := len(live) / 2
		freed := live[len(live)-k:]
		live = live[:len(live)-k]
		for _, s := range freed {
			if err := p.Free(s); err != nil {
				return err
			}
		}
		for i := len(freed) - 1; i >= 0; i-- {
			s, err := p.Allocate(nil)
			if err != nil {
				return err
			}
			if s != freed[i] {
				return fmt.Errorf("%w: round %d", errReuse, round)
			}
		}
		for _, s := range freed {
			if err := p.Free(s); err != nil {
				return err
			}
		}
		for _, s := range live {
			if err := p.Free(s); err != nil {
				return err
			}
		}
		live = live[:0]
	}
	log.Debug("worker done", zap.Int64("allocations", seq))
	return nil
}
