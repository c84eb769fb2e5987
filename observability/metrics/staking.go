package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type StakingMetrics struct {
	deposits    prometheus.Counter
	withdrawals prometheus.Counter
	vaultTotal  prometheus.Gauge
}

var (
	stakingOnce     sync.Once
	stakingRegistry *StakingMetrics
)

func Staking() *StakingMetrics {
	stakingOnce.Do(func() {
		stakingRegistry = &StakingMetrics{
			deposits: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_deposits_total",
				Help: "Count of accepted stake deposits.",
			}),
			withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_withdrawals_total",
				Help: "Count of accepted stake withdrawals.",
			}),
			vaultTotal: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "staking_vault_balance",
				Help: "Current stake vault balance in base units.",
			}),
		}
		prometheus.MustRegister(
			stakingRegistry.deposits,
			stakingRegistry.withdrawals,
			stakingRegistry.vaultTotal,
		)
	})
	return stakingRegistry
}

func (m *StakingMetrics) ObserveDeposit(vaultBalance float64) {
	if m == nil {
		return
	}
	m.deposits.Inc()
	m.vaultTotal.Set(vaultBalance)
}

func (m *StakingMetrics) ObserveWithdrawal(vaultBalance float64) {
	if m == nil {
		return
	}
	m.withdrawals.Inc()
	m.vaultTotal.Set(vaultBalance)
}
