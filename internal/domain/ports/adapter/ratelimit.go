package adapter

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter limits how often one end user may trigger an action.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func UserCommandKey(userID int64, command string) string {
	return fmt.Sprintf("rate_limit:%d:%s", userID, command)
}
