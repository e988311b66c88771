package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const summaryCacheKeyPrefix = "formcheck:summary:"

// CachedSummarizer keeps generated summaries in redis, keyed by the summary input.
// Cache failures never fail a summary, they are only logged.
type CachedSummarizer struct {
	next analysis.Summarizer
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedSummarizer(next analysis.Summarizer, rdb *redis.Client, ttl time.Duration) *CachedSummarizer {
	return &CachedSummarizer{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
	}
}

func SummaryCacheKey(in analysis.SummaryInput) (string, error) {
	inJson, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal summary input: %w", err)
	}
	sum := sha256.Sum256(inJson)
	return summaryCacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

func (c *CachedSummarizer) Summarize(ctx context.Context, in analysis.SummaryInput) (_ analysis.Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "narrative.cached.summarize")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key, err := SummaryCacheKey(in)
	if err != nil {
		return analysis.Summary{}, err
	}

	if cached, ok := c.get(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache-hit", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache-hit", false))

	summary, err := c.next.Summarize(ctx, in)
	if err != nil {
		return analysis.Summary{}, err
	}

	c.set(ctx, key, summary)
	return summary, nil
}

func (c *CachedSummarizer) get(ctx context.Context, key string) (analysis.Summary, bool) {
	cmd := c.rdb.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnf("summary cache get [%s]: %s", key, err)
		}
		return analysis.Summary{}, false
	}

	var summary analysis.Summary
	if err := json.Unmarshal([]byte(cmd.Val()), &summary); err != nil {
		log.Warnf("summary cache unmarshal [%s]: %s", key, err)
		return analysis.Summary{}, false
	}

	return summary, true
}

func (c *CachedSummarizer) set(ctx context.Context, key string, summary analysis.Summary) {
	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Warnf("summary cache marshal [%s]: %s", key, err)
		return
	}

	if err := c.rdb.Set(ctx, key, summaryJson, c.ttl).Err(); err != nil {
		log.Warnf("summary cache set [%s]: %s", key, err)
	}
}
