// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartReleaseScheduler releases scheduled draws every interval until ctx is
// cancelled. The returned scheduler is already running.
func (s *DrawService) StartReleaseScheduler(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := s.ReleaseDue(ctx)
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			if n > 0 {
				log.Printf("✅ [Scheduler] Auto-released %d draw(s)", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			log.Printf("[Scheduler] Shutdown error: %v", err)
		}
	}()
	return sched, nil
}
