// Package config holds the command-line configuration shared by the entry points.
package config

import (
	"errors"
	"flag"
	"fmt"
)

var ErrInvalid = errors.New("invalid configuration")

// Delivery selects how results reach their consumer.
type Delivery string

const (
	// DeliveryDirect hands results to the consumer on the worker goroutine.
	DeliveryDirect Delivery = "direct"
	// DeliveryAsync queues results for the consumer's own goroutine.
	DeliveryAsync Delivery = "async"
)

const maxWorkers = 64

type Config struct {
	Debug      bool
	Workers    int
	Delivery   Delivery
	PreviewMax int
}

func Default() Config {
	return Config{
		Workers:    1,
		Delivery:   DeliveryAsync,
		PreviewMax: 1024,
	}
}

// RegisterFlags binds c to fs, using the current values of c as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug mode with verbose logging")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Number of background workers sharing the task queue")
	fs.Func("delivery", "Result delivery: direct or async (default "+string(c.Delivery)+")", func(s string) error {
		c.Delivery = Delivery(s)
		return nil
	})
	fs.IntVar(&c.PreviewMax, "preview-max", c.PreviewMax, "Longest side of on-screen previews in pixels")
}

func (c Config) Validate() error {
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("%w: workers must be between 1 and %d, got %d", ErrInvalid, maxWorkers, c.Workers)
	}
	if c.Delivery != DeliveryDirect && c.Delivery != DeliveryAsync {
		return fmt.Errorf("%w: unknown delivery %q", ErrInvalid, c.Delivery)
	}
	if c.PreviewMax < 64 {
		return fmt.Errorf("%w: preview-max must be at least 64, got %d", ErrInvalid, c.PreviewMax)
	}
	return nil
}
