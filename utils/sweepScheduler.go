package utils

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is the part of the orchestrator the scheduler drives.
type Sweeper interface {
	SweepStale(ctx context.Context, olderThan time.Duration) int
}

// StartSweepScheduler discards attempts idle for longer than ttl on the
// given cron schedule. The returned cron is already running.
func StartSweepScheduler(s Sweeper, schedule string, ttl time.Duration) (*cron.Cron, error) {
	log.Println("[SCHEDULER] Initializing stale attempt sweeper...")

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { RunSweep(s, ttl) }); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[SCHEDULER] Stale attempt sweeper started - schedule %q, ttl %s", schedule, ttl)
	return c, nil
}

// RunSweep performs one sweep.
func RunSweep(s Sweeper, ttl time.Duration) int {
	n := s.SweepStale(context.Background(), ttl)
	if n > 0 {
		log.Printf("[SCHEDULER] Discarded %d stale enrollment attempts", n)
	}
	return n
}
