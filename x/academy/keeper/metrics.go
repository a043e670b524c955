package keeper

import (
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AcademyMetrics holds all Prometheus metrics for the academy module
type AcademyMetrics struct {
	CoursesCreated      prometheus.Counter
	Enrollments         prometheus.Counter
	MilestonesCompleted prometheus.Counter
	CoursesCompleted    prometheus.Counter
	StakesForfeited     prometheus.Counter

	// Value flows in base units, labelled by direction
	ValueTransferred *prometheus.CounterVec
	PlatformFees     prometheus.Counter
}

var (
	academyMetricsOnce sync.Once
	academyMetrics     *AcademyMetrics
)

// NewAcademyMetrics creates and registers academy metrics (singleton pattern)
func NewAcademyMetrics() *AcademyMetrics {
	academyMetricsOnce.Do(func() {
		academyMetrics = &AcademyMetrics{
			CoursesCreated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stakedlearn",
				Subsystem: "academy",
				Name:      "courses_created_total",
				Help:      "Total number of courses created",
			}),
			Enrollments: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stakedlearn",
				Subsystem: "academy",
				Name:      "enrollments_total",
				Help:      "Total number of stakes locked by enrollment",
			}),
			MilestonesCompleted: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stakedlearn",
				Subsystem: "academy",
				Name:      "milestones_completed_total",
				Help:      "Total number of milestone completions recorded",
			}),
			CoursesCompleted: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stakedlearn",
				Subsystem: "academy",
				Name:      "courses_completed_total",
				Help:      "Total number of enrollments settled by completion",
			}),
			StakesForfeited: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stakedlearn",
				Subsystem: "academy",
				Name:      "stakes_forfeited_total",
				Help:      "Total number of enrollments settled by forfeiture",
			}),
			ValueTransferred: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "stakedlearn",
					Subsystem: "academy",
					Name:      "value_transferred_total",
					Help:      "Base units moved in or out of custody",
				},
				[]string{"flow"},
			),
			PlatformFees: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stakedlearn",
				Subsystem: "academy",
				Name:      "platform_fees_accrued_total",
				Help:      "Base units withheld as platform fees",
			}),
		}
	})
	return academyMetrics
}

// Flow labels for ValueTransferred
const (
	flowStakeIn       = "stake_in"
	flowRewardIn      = "reward_in"
	flowCompletionOut = "completion_out"
	flowForfeitureOut = "forfeiture_out"
	flowFeeWithdrawal = "fee_withdrawal"
)

func (m *AcademyMetrics) observeFlow(flow string, amount math.Int) {
	if m == nil || amount.IsNil() || !amount.IsPositive() {
		return
	}
	f, err := amount.ToLegacyDec().Float64()
	if err != nil {
		return
	}
	m.ValueTransferred.WithLabelValues(flow).Add(f)
}
