// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"errors"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/meterio/prize-auction/meter"
	"github.com/prometheus/client_golang/prometheus"
)

var log = slog.Default().With("pkg", "auction")

var (
	opsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_ops_total",
		Help: "Auction operations by opcode and result",
	}, []string{"op", "result"})
	opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auction_op_duration_seconds",
		Help:    "Time spent in auction handlers",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"op"})
	openPrizeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_open_prize",
		Help: "Id of the open prize (0 when none)",
	})
	ledgerBalanceGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_ledger_balance",
		Help: "Balance held by the auction ledger, in whole tokens",
	})

	registerOnce sync.Once
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(opsCounter, opDuration, openPrizeGauge, ledgerBalanceGauge)
	})
}

func observe(op uint32, err error, elapsed time.Duration) {
	name := meter.GetOpName(op)
	opDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	opsCounter.WithLabelValues(name, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case IsRejection(err):
		return "rejected"
	default:
		return "error"
	}
}

var weiPerToken = new(big.Float).SetInt(big.NewInt(1e18))

func weiToFloat(wei *big.Int) float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerToken).Float64()
	return f
}
