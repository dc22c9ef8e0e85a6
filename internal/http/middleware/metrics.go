package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	GachaPulls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gacha_pulls_total",
			Help: "Total gacha pulls by awarded rarity",
		},
		[]string{"rarity"},
	)
	MilestoneUnlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_milestone_unlocks_total",
			Help: "Total character unlocks from donation milestones",
		},
		[]string{"milestone"},
	)
	StakingClaims = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "staking_claims_total",
			Help: "Total successful staking reward claims",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(GachaPulls)
	prometheus.MustRegister(MilestoneUnlocks)
	prometheus.MustRegister(StakingClaims)
}
