package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	messageTypeLabel = "type"
	reasonLabel      = "reason"
)

var (
	connectedViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barrierview_connected_viewers",
		Help: "The number of viewers connected over websocket.",
	})

	droppedSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barrierview_dropped_sends_total",
		Help: "Outbound messages dropped because a viewer's queue was full.",
	}, []string{messageTypeLabel})

	rejectedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barrierview_rejected_messages_total",
		Help: "Inbound messages rejected by the server.",
	}, []string{reasonLabel})
)
