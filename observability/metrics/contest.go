package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type ContestMetrics struct {
	contestsCreated *prometheus.CounterVec
	joins           *prometheus.CounterVec
	batchesPaid     *prometheus.CounterVec
	payoutTotal     *prometheus.CounterVec
	sweeps          prometheus.Counter
}

var (
	contestOnce     sync.Once
	contestRegistry *ContestMetrics
)

func Contest() *ContestMetrics {
	contestOnce.Do(func() {
		contestRegistry = &ContestMetrics{
			contestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "contest_created_total",
				Help: "Count of contests allocated by pool mint.",
			}, []string{"mint"}),
			joins: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "contest_joins_total",
				Help: "Count of accepted paid entries by contest.",
			}, []string{"contest"}),
			batchesPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "contest_payout_batches_total",
				Help: "Count of accepted payout batches by contest.",
			}, []string{"contest"}),
			payoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "contest_payout_amount_total",
				Help: "Cumulative base units disbursed by contest.",
			}, []string{"contest"}),
			sweeps: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "contest_fee_sweeps_total",
				Help: "Count of residual vault balances returned to creators.",
			}),
		}
		prometheus.MustRegister(
			contestRegistry.contestsCreated,
			contestRegistry.joins,
			contestRegistry.batchesPaid,
			contestRegistry.payoutTotal,
			contestRegistry.sweeps,
		)
	})
	return contestRegistry
}

func (m *ContestMetrics) ObserveCreated(mint string) {
	if m == nil {
		return
	}
	if mint == "" {
		mint = "unknown"
	}
	m.contestsCreated.WithLabelValues(mint).Inc()
}

func (m *ContestMetrics) ObserveJoin(contestID uint64) {
	if m == nil {
		return
	}
	m.joins.WithLabelValues(strconv.FormatUint(contestID, 10)).Inc()
}

func (m *ContestMetrics) ObserveBatch(contestID uint64, total float64) {
	if m == nil {
		return
	}
	label := strconv.FormatUint(contestID, 10)
	m.batchesPaid.WithLabelValues(label).Inc()
	if total > 0 {
		m.payoutTotal.WithLabelValues(label).Add(total)
	}
}

func (m *ContestMetrics) ObserveSweep() {
	if m == nil {
		return
	}
	m.sweeps.Inc()
}
