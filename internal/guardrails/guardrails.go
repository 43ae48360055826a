// Package guardrails composes the kill switch and rate admission into one
// ordered, fail-fast check that runs before any request work is done.
package guardrails

import (
	"context"
	"net/http"
	"time"

	"updategen/internal/apierr"
	"updategen/internal/ratelimit"
)

// Which limit produced a rejection; feeds telemetry, never the caller.
const (
	LimitKillSwitch = "kill_switch"
	LimitClient     = "client"
	LimitGlobal     = "global"
)

// Admissions is the slice of the rate limiter the gate depends on.
type Admissions interface {
	CheckClient(ctx context.Context, clientID string) ratelimit.Decision
	CheckGlobalDaily(ctx context.Context) ratelimit.Decision
}

// Result is either an allow (OK, with the client's remaining budget) or a
// rejection carrying everything the boundary needs to answer.
type Result struct {
	OK                bool
	Status            int
	Code              string
	Message           string
	RetryAfterSeconds int
	LimitType         string
	Remaining         int
}

type Gate struct {
	enabled    bool
	admissions Admissions
	now        func() time.Time
}

func New(generationEnabled bool, admissions Admissions) *Gate {
	return &Gate{
		enabled:    generationEnabled,
		admissions: admissions,
		now:        time.Now,
	}
}

// Check runs the guardrails in order, first failure wins:
// kill switch, per-client window, global daily budget.
func (g *Gate) Check(ctx context.Context, clientID string) Result {
	if !g.enabled {
		return Result{
			Status:    http.StatusServiceUnavailable,
			Code:      apierr.CodeGenerationDisabled,
			Message:   "live generation is temporarily disabled",
			LimitType: LimitKillSwitch,
		}
	}

	client := g.admissions.CheckClient(ctx, clientID)
	if !client.Allowed {
		retryAfter := int(client.ResetAt.Sub(g.now()) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}

		return Result{
			Status:            http.StatusTooManyRequests,
			Code:              apierr.CodeRateLimited,
			Message:           "too many requests, please wait before trying again",
			RetryAfterSeconds: retryAfter,
			LimitType:         LimitClient,
		}
	}

	global := g.admissions.CheckGlobalDaily(ctx)
	if !global.Allowed {
		// No retry hint: the daily budget resets at a fixed, unannounced time.
		return Result{
			Status:    http.StatusTooManyRequests,
			Code:      apierr.CodeDailyLimitReached,
			Message:   "daily usage limit reached, please try again tomorrow",
			LimitType: LimitGlobal,
		}
	}

	return Result{OK: true, Remaining: client.Remaining}
}
