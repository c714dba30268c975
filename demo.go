package main

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/funny-falcon/slotpool/pool"
)

type demoReport struct {
	Full    pool.Stats `json:"full"`
	Drained pool.Stats `json:"drained"`
}

// demo fills a pool of ints with 0..capacity-1, prints every slot, frees
// them all and prints the pool stats before and after.
func demo(cfg Config, log *zap.Logger, out io.Writer) error {
	p, err := pool.New[int](cfg.Capacity, cfg.options(log)...)
	if err != nil {
		return err
	}

	ptrs := make([]*int, 0, cfg.Capacity)
	for i := 0; i < cfg.Capacity; i++ {
		v, err := p.AllocateValue(i)
		if err != nil {
			return err
		}
		ptrs = append(ptrs, v)
	}
	for _, v := range ptrs {
		fmt.Fprintf(out, "%p %d\n", v, *v)
	}
	if _, err := p.Allocate(nil); !errors.Is(err, pool.ErrExhausted) {
		return fmt.Errorf("full pool allocated: %v", err)
	}
	report := demoReport{Full: p.Stats()}

	for _, v := range ptrs {
		if err := p.Free(v); err != nil {
			return err
		}
	}
	report.Drained = p.Stats()
	if err := p.Close(); err != nil {
		return err
	}
	log.Debug("demo done", zap.Int("capacity", cfg.Capacity))
	return jsonConfig.NewEncoder(out).Encode(report)
}
