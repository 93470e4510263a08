package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultReportWindow bounds how long a render slot lives when the holder
// never releases it.
const DefaultReportWindow = time.Minute

// acquireAttempts caps retries when the slot expires between SETNX and GET.
const acquireAttempts = 3

// ReportGuard coalesces report renders per project with a SET NX slot whose
// value is the artifact key being rendered.
// Key format: report:lock:<project_id>
type ReportGuard struct {
	client *redis.Client
	window time.Duration
}

// NewReportGuard creates a ReportGuard wrapping the given Redis client.
// A non-positive window falls back to DefaultReportWindow.
func NewReportGuard(client *redis.Client, window time.Duration) *ReportGuard {
	if window <= 0 {
		window = DefaultReportWindow
	}
	return &ReportGuard{client: client, window: window}
}

// Acquire claims the project slot for key. When another render holds it,
// Acquire returns that render's key and false.
func (g *ReportGuard) Acquire(ctx context.Context, projectID, key string) (string, bool, error) {
	for range acquireAttempts {
		ok, err := g.client.SetNX(ctx, g.key(projectID), key, g.window).Result()
		if err != nil {
			return "", false, fmt.Errorf("report guard acquire: %w", err)
		}
		if ok {
			return key, true, nil
		}

		current, err := g.client.Get(ctx, g.key(projectID)).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("report guard lookup: %w", err)
		}
		return current, false, nil
	}
	return "", false, fmt.Errorf("report guard acquire: slot for %s kept changing", projectID)
}

// Release drops the project lock. Releasing a lock that expired is not an error.
func (g *ReportGuard) Release(ctx context.Context, projectID string) error {
	if err := g.client.Del(ctx, g.key(projectID)).Err(); err != nil {
		return fmt.Errorf("report guard release: %w", err)
	}
	return nil
}

func (g *ReportGuard) key(projectID string) string {
	return "report:lock:" + projectID
}
