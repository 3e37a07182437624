package sqlite

import (
	"context"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
)

type rateLimitsRepo struct {
	q dbtx
}

// Take implements a token bucket entirely inside the database. The refill
// and the spend happen in one conditional UPDATE, so concurrent callers on
// the same key cannot both consume the last token.
func (r *rateLimitsRepo) Take(
	ctx context.Context,
	key string,
	policy domain.RatePolicy,
	now time.Time,
) (domain.RateDecision, error) {
	nowUnix := now.UTC().Unix()
	windowSeconds := int64(policy.Window / time.Second)

	// Ensure the bucket exists and carries the current policy. A policy
	// change takes effect on the next take without resetting token counts.
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO rate_limit_buckets (key, tokens, max_tokens, refill_rate, window_seconds, last_refill)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			max_tokens = excluded.max_tokens,
			refill_rate = excluded.refill_rate,
			window_seconds = excluded.window_seconds`,
		key, policy.MaxTokens, policy.MaxTokens, policy.RefillRate, windowSeconds, nowUnix,
	)
	if err != nil {
		return domain.RateDecision{}, err
	}

	// last_refill only advances when at least one whole token accrued,
	// otherwise fractional refill progress would be thrown away on every
	// denied request and a saturated key could starve forever.
	res, err := r.q.ExecContext(ctx, `
		UPDATE rate_limit_buckets
		SET tokens = MIN(max_tokens, tokens + ((? - last_refill) * refill_rate) / window_seconds) - 1,
		    last_refill = CASE
			WHEN ((? - last_refill) * refill_rate) / window_seconds > 0 THEN ?
			ELSE last_refill
		    END
		WHERE key = ?
		  AND MIN(max_tokens, tokens + ((? - last_refill) * refill_rate) / window_seconds) > 0`,
		nowUnix, nowUnix, nowUnix, key, nowUnix,
	)
	if err != nil {
		return domain.RateDecision{}, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.RateDecision{}, err
	}

	var (
		tokens     int
		refillRate int
		windowSecs int64
		lastRefill int64
	)
	err = r.q.QueryRowContext(ctx,
		`SELECT tokens, refill_rate, window_seconds, last_refill
		 FROM rate_limit_buckets WHERE key = ?`,
		key,
	).Scan(&tokens, &refillRate, &windowSecs, &lastRefill)
	if err != nil {
		return domain.RateDecision{}, err
	}

	if n > 0 {
		return domain.RateDecision{Allowed: true, Remaining: tokens}, nil
	}

	return domain.RateDecision{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: retryAfter(nowUnix, lastRefill, refillRate, windowSecs),
	}, nil
}

func (r *rateLimitsRepo) DeleteIdleBuckets(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM rate_limit_buckets WHERE last_refill < ?`,
		cutoff.UTC().Unix(),
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// retryAfter estimates the wait until the bucket accrues its next token.
func retryAfter(nowUnix, lastRefill int64, refillRate int, windowSeconds int64) time.Duration {
	if refillRate <= 0 || windowSeconds <= 0 {
		return time.Second
	}

	secondsPerToken := windowSeconds / int64(refillRate)
	if windowSeconds%int64(refillRate) != 0 {
		secondsPerToken++
	}
	if secondsPerToken < 1 {
		secondsPerToken = 1
	}

	elapsed := nowUnix - lastRefill
	wait := secondsPerToken - elapsed
	if wait < 1 {
		wait = 1
	}

	return time.Duration(wait) * time.Second
}
