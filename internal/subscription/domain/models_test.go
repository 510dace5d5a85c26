package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePlan(t *testing.T) {
	plan, ok := ParsePlan("  core ")
	assert.True(t, ok)
	assert.Equal(t, PlanCore, plan)

	_, ok = ParsePlan("enterprise")
	assert.False(t, ok)
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		sub  Subscription
		want Status
	}{
		{
			name: "canceled beats everything",
			sub: Subscription{
				Plan:       PlanComplete,
				Trialing:   true,
				CanceledAt: &past,
			},
			want: StatusCanceled,
		},
		{
			name: "future cancellation timestamp is not yet effective",
			sub: Subscription{
				Plan:         PlanCore,
				CanceledAt:   &future,
				PeriodEndsAt: &future,
			},
			want: StatusActive,
		},
		{
			name: "trial in progress",
			sub: Subscription{
				Plan:        PlanCore,
				Trialing:    true,
				TrialEndsAt: &future,
			},
			want: StatusTrialing,
		},
		{
			name: "trial ended",
			sub: Subscription{
				Plan:        PlanCore,
				Trialing:    true,
				TrialEndsAt: &past,
			},
			want: StatusTrialExpired,
		},
		{
			name: "trial flag without end date counts as expired",
			sub: Subscription{
				Plan:     PlanCore,
				Trialing: true,
			},
			want: StatusTrialExpired,
		},
		{
			name: "free plan",
			sub:  Subscription{Plan: PlanFree},
			want: StatusFree,
		},
		{
			name: "empty plan treated as free",
			sub:  Subscription{},
			want: StatusFree,
		},
		{
			name: "canceling until the period runs out",
			sub: Subscription{
				Plan:              PlanComplete,
				CancelAtPeriodEnd: true,
				PeriodEndsAt:      &future,
			},
			want: StatusCanceling,
		},
		{
			name: "cancel at period end already past",
			sub: Subscription{
				Plan:              PlanComplete,
				CancelAtPeriodEnd: true,
				PeriodEndsAt:      &past,
			},
			want: StatusCanceled,
		},
		{
			name: "lapsed period is past due",
			sub: Subscription{
				Plan:         PlanCore,
				PeriodEndsAt: &past,
			},
			want: StatusPastDue,
		},
		{
			name: "paid and current",
			sub: Subscription{
				Plan:         PlanCore,
				PeriodEndsAt: &future,
			},
			want: StatusActive,
		},
		{
			name: "paid with no period end",
			sub:  Subscription{Plan: PlanComplete},
			want: StatusActive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.sub, now))
		})
	}
}
