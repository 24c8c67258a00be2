package smoke

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/addressbook/pkg/logger"
)

// runTagField marks burst contacts so they can be found in the list afterwards.
const runTagField = "smokeRun"

// createBurst creates cfg.Contacts contacts with cfg.Workers workers and
// returns the ids the server assigned.
func createBurst(ctx context.Context, cfg *Config, client *HTTPClient, stats *Stats) (string, []string, error) {
	runID := uuid.New().String()
	logger.Get().Info(ctx, "creating contacts concurrently",
		logger.Int("contacts", cfg.Contacts),
		logger.Int("workers", cfg.Workers),
		logger.String("run", runID))

	var (
		submitted  int64
		successful int64
		failed     int64

		mu  sync.Mutex
		ids = make([]string, 0, cfg.Contacts)
	)

	// Progress reporting
	var lastReport atomic.Int64
	reportInterval := time.Second

	seqChan := make(chan int, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for seq := range seqChan {
				payload := Contact{"name": fmt.Sprintf("burst-%d", seq), runTagField: runID}
				c, err := createContact(ctx, client, payload)

				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Debug(ctx, "burst create failed", logger.Int("seq", seq), logger.Error(err))
				} else {
					atomic.AddInt64(&successful, 1)
					mu.Lock()
					ids = append(ids, c.ID())
					mu.Unlock()
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
					logger.Get().Debug(ctx, "burst progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", cfg.Contacts))
				}
			}
		}()
	}

	// Send work to workers
	go func() {
		defer close(seqChan)
		for seq := 0; seq < cfg.Contacts; seq++ {
			select {
			case <-ctx.Done():
				return
			case seqChan <- seq:
			}
		}
	}()

	wg.Wait()

	stats.BurstSubmitted = int(atomic.LoadInt64(&submitted))
	stats.BurstSuccessful = int(atomic.LoadInt64(&successful))
	stats.BurstFailed = int(atomic.LoadInt64(&failed))

	if err := ctx.Err(); err != nil {
		return runID, ids, fmt.Errorf("burst interrupted: %w", err)
	}
	logger.Get().Info(ctx, "burst completed",
		logger.Int("successful", stats.BurstSuccessful),
		logger.Int("failed", stats.BurstFailed))
	return runID, ids, nil
}
