package catalog

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRefresher reloads the catalog on every interval until the returned
// scheduler is shut down.
func StartRefresher(c *Catalog, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := c.Reload(); err != nil {
				slog.Error("deck catalog reload failed, keeping previous list", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
