// internal/store/summary_cache.go
package store

import (
	"context"
	"encoding/json"
	"time"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	summaryKey        = "bankbook:summary"
	loanRiskKeyPrefix = "loan:risk:"
)

// SummaryCache keeps the dashboard's per-account balance summary in Redis
// and invalidates stale per-loan risk entries after a rescoring run.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// PutSummaries stores the account summaries as a single JSON blob with the
// configured TTL.
func (c *SummaryCache) PutSummaries(ctx context.Context, summaries map[string]models.AccountSummary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return errs.NewCacheWriteFailedError(summaryKey, err)
	}
	if err := c.client.Set(ctx, summaryKey, data, c.ttl).Err(); err != nil {
		return errs.NewCacheWriteFailedError(summaryKey, err)
	}
	return nil
}

// GetSummaries returns the cached account summaries, or nil when the key
// is absent or expired.
func (c *SummaryCache) GetSummaries(ctx context.Context) (map[string]models.AccountSummary, error) {
	val, err := c.client.Get(ctx, summaryKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var summaries map[string]models.AccountSummary
	if err := json.Unmarshal([]byte(val), &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// InvalidateLoanRisk drops the cached risk entry for a loan after its
// rating was recomputed.
func (c *SummaryCache) InvalidateLoanRisk(ctx context.Context, loanID string) error {
	return c.client.Del(ctx, loanRiskKeyPrefix+loanID).Err()
}
