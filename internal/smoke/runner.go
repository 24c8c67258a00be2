package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/addressbook/pkg/logger"
)

// Run executes the scenarios and the burst against cfg.BaseURL. It stops at
// the first failed check.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting address book smoke test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("contacts", cfg.Contacts),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("verbose", cfg.Verbose))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Steps 2-5: scenarios
	ana, err := scenarioCreate(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("create scenario failed: %w", err)
	}
	stats.ScenariosPassed++

	if err := scenarioUpdate(ctx, client, ana); err != nil {
		return stats, fmt.Errorf("update scenario failed: %w", err)
	}
	stats.ScenariosPassed++

	if err := scenarioDelete(ctx, client, ana); err != nil {
		return stats, fmt.Errorf("delete scenario failed: %w", err)
	}
	stats.ScenariosPassed++

	if err := scenarioInterest(ctx, client); err != nil {
		return stats, fmt.Errorf("interest scenario failed: %w", err)
	}
	stats.ScenariosPassed++

	// Step 6: concurrent creates
	if cfg.Contacts > 0 {
		before, err := countContacts(ctx, client)
		if err != nil {
			return stats, fmt.Errorf("count contacts: %w", err)
		}
		runID, ids, err := createBurst(ctx, cfg, client, stats)
		if err != nil {
			return stats, err
		}
		if err := verifyBurst(ctx, client, cfg, runID, ids, before); err != nil {
			return stats, fmt.Errorf("burst verification failed: %w", err)
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return stats, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, createsPerSecond float64

	if stats.BurstSubmitted > 0 {
		successRate = float64(stats.BurstSuccessful) / float64(stats.BurstSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		createsPerSecond = float64(stats.BurstSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("scenariosPassed", stats.ScenariosPassed),
		logger.Int("burstSubmitted", stats.BurstSubmitted),
		logger.Int("burstSuccessful", stats.BurstSuccessful),
		logger.Int("burstFailed", stats.BurstFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("createsPerSecond", createsPerSecond))
}
