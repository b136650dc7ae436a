package behaviour

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - счётчики стриминга и автотайлинга. Нулевой указатель допустим:
// все методы на nil ничего не делают.
type Metrics struct {
	streamed        prometheus.Gauge
	streamedIn      prometheus.Counter
	streamedOut     prometheus.Counter
	borderDelivered prometheus.Counter
	borderDropped   prometheus.Counter
	cellsRedrawn    *prometheus.CounterVec
	bodiesBuilt     prometheus.Counter
}

// NewMetrics создаёт метрики и регистрирует их в reg. При reg == nil метрики не регистрируются.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		streamed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tileworld",
			Name:      "streamed_chunks",
			Help:      "Количество чанков в окне обзора.",
		}),
		streamedIn: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Name:      "chunks_streamed_in_total",
			Help:      "Чанков, добавленных в окно обзора.",
		}),
		streamedOut: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Name:      "chunks_streamed_out_total",
			Help:      "Чанков, удалённых из окна обзора.",
		}),
		borderDelivered: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Name:      "border_updates_delivered_total",
			Help:      "Пограничных обновлений, доставленных соседнему чанку.",
		}),
		borderDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Name:      "border_updates_dropped_total",
			Help:      "Пограничных обновлений для чанков вне окна обзора.",
		}),
		cellsRedrawn: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tileworld",
			Name:      "cells_redrawn_total",
			Help:      "Перерисованных клеток по типу автотайлера.",
		}, []string{"renderer"}),
		bodiesBuilt: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Name:      "collision_bodies_built_total",
			Help:      "Пересобранных тел коллизий чанков.",
		}),
	}
}

func (m *Metrics) setStreamed(n int) {
	if m != nil {
		m.streamed.Set(float64(n))
	}
}

func (m *Metrics) chunkIn() {
	if m != nil {
		m.streamedIn.Inc()
	}
}

func (m *Metrics) chunkOut() {
	if m != nil {
		m.streamedOut.Inc()
	}
}

func (m *Metrics) border(delivered bool) {
	if m == nil {
		return
	}
	if delivered {
		m.borderDelivered.Inc()
	} else {
		m.borderDropped.Inc()
	}
}

func (m *Metrics) redrawn(renderer string, n int) {
	if m != nil && n > 0 {
		m.cellsRedrawn.WithLabelValues(renderer).Add(float64(n))
	}
}

func (m *Metrics) bodyBuilt() {
	if m != nil {
		m.bodiesBuilt.Inc()
	}
}
