// Package resource enforces limits shared by every process using a VFS
// instance: a budget of live file objects and a throughput cap for snapshot
// IO.
package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrFileBudgetExhausted is returned when acquiring a file-object slot would
// exceed the configured budget.
var ErrFileBudgetExhausted = errors.New("resource: file object budget exhausted")

// Config holds resource limits.
type Config struct {
	// MaxFileObjects is the hard limit on file objects alive across all
	// processes. If 0, no limit is enforced (only tracking).
	MaxFileObjects int64

	// SnapshotIOBytesPerSec is the maximum snapshot IO throughput.
	// If 0, unlimited.
	SnapshotIOBytesPerSec int64
}

// Controller manages VFS-wide resources. A nil *Controller is valid and
// enforces nothing, so callers never have to branch on configuration.
type Controller struct {
	cfg Config

	fileSem  *semaphore.Weighted // nil if unlimited
	fileUsed atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxFileObjects > 0 {
		c.fileSem = semaphore.NewWeighted(cfg.MaxFileObjects)
	}

	if cfg.SnapshotIOBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.SnapshotIOBytesPerSec), int(cfg.SnapshotIOBytesPerSec))
	}

	return c
}

// AcquireFile attempts to reserve one file-object slot.
// Returns ErrFileBudgetExhausted if the budget would be exceeded.
// Non-blocking - an exhausted budget is a terminal error for the caller.
func (c *Controller) AcquireFile() error {
	if c == nil {
		return nil
	}

	if c.fileSem != nil {
		if !c.fileSem.TryAcquire(1) {
			return ErrFileBudgetExhausted
		}
	}

	c.fileUsed.Add(1)
	return nil
}

// ReleaseFile releases a reserved file-object slot.
func (c *Controller) ReleaseFile() {
	if c == nil {
		return
	}

	if c.fileSem != nil {
		c.fileSem.Release(1)
	}
	c.fileUsed.Add(-1)
}

// FileCount returns the number of file-object slots currently reserved.
func (c *Controller) FileCount() int64 {
	if c == nil {
		return 0
	}
	return c.fileUsed.Load()
}

// FileLimit returns the configured file-object budget (0 if unlimited).
func (c *Controller) FileLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxFileObjects
}

// AcquireIO waits until the snapshot IO limit allows the specified number of
// bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}

// TryAcquireIO attempts to acquire IO tokens without blocking.
// Returns true if tokens were acquired, false otherwise.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), bytes)
}
