package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/funny-falcon/slotpool/pool"
	"github.com/funny-falcon/slotpool/sysalloc"
)

type Config struct {
	Capacity int    `toml:"capacity"`
	Debug    bool   `toml:"debug"`
	Indexed  bool   `toml:"indexed"`
	Heap     bool   `toml:"heap"`
	HTTP     string `toml:"http"`
	Workers  int    `toml:"workers"`
	Rounds   int    `toml:"rounds"`
	Verbose  bool   `toml:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Capacity: 100,
		Rounds:   1000,
	}
}

// parseArgs reads the optional toml file first; flags given on the command
// line win over it.
func parseArgs(args []string) (Config, error) {
	fl := defaultConfig()
	fs := flag.NewFlagSet("slotpool", flag.ContinueOnError)
	path := fs.String("config", "", "toml config file")
	fs.IntVar(&fl.Capacity, "capacity", fl.Capacity, "slots per pool")
	fs.BoolVar(&fl.Debug, "debug", fl.Debug, "track live slots")
	fs.BoolVar(&fl.Indexed, "indexed", fl.Indexed, "keep free-list links outside the slots")
	fs.BoolVar(&fl.Heap, "heap", fl.Heap, "take the slot buffer from the Go heap instead of mmap")
	fs.StringVar(&fl.HTTP, "http", fl.HTTP, "serve pool inspection on this address")
	fs.IntVar(&fl.Workers, "workers", fl.Workers, "run the stress test with this many workers")
	fs.IntVar(&fl.Rounds, "rounds", fl.Rounds, "stress rounds per worker")
	fs.BoolVar(&fl.Verbose, "v", fl.Verbose, "debug logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	if *path != "" {
		if _, err := toml.DecodeFile(*path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", *path, err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			cfg.Capacity = fl.Capacity
		case "debug":
			cfg.Debug = fl.Debug
		case "indexed":
			cfg.Indexed = fl.Indexed
		case "heap":
			cfg.Heap = fl.Heap
		case "http":
			cfg.HTTP = fl.HTTP
		case "workers":
			cfg.Workers = fl.Workers
		case "rounds":
			cfg.Rounds = fl.Rounds
		case "v":
			cfg.Verbose = fl.Verbose
		}
	})
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Capacity < 0:
		return errors.New("capacity must not be negative")
	case c.Workers < 0:
		return errors.New("workers must not be negative")
	case c.Rounds < 0:
		return errors.New("rounds must not be negative")
	case c.HTTP != "" && c.Workers > 0:
		return errors.New("http and workers are exclusive")
	}
	return nil
}

func (c Config) options(log *zap.Logger) []pool.Option {
	opts := []pool.Option{pool.WithLogger(log)}
	if c.Debug {
		opts = append(opts, pool.WithDebug())
	}
	if c.Indexed {
		opts = append(opts, pool.WithIndexedLinks())
	}
	if c.Heap {
		opts = append(opts, pool.WithAllocator(sysalloc.Heap{}))
	}
	return opts
}
