// Package metrics exposes the game server's Prometheus series, grounded
// on the metrics package of the coinbase trading bot example: a
// package-level var block of collectors registered once, plus small
// exported Inc/Observe/Set helpers the rest of the code calls without
// needing to know about prometheus types directly.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradinggame_ticks_total",
			Help: "Price ticks processed, by game phase outcome.",
		},
		[]string{"result"}, // ok|error
	)

	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradinggame_orders_total",
			Help: "Bid/ask place and cancel requests, counted whether or not the reducer accepts them.",
		},
		[]string{"action"}, // bid|ask|cancel_bid|cancel_ask
	)

	TradesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradinggame_trades_total",
			Help: "Orders matched into a trade by the reducer's crossing rule.",
		},
	)

	GamesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradinggame_games_active",
			Help: "Games currently in the Running phase.",
		},
	)

	LobbiesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradinggame_lobbies_active",
			Help: "Lobbies currently awaiting players or counting down.",
		},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradinggame_queue_depth",
			Help: "Players currently waiting in the matchmaking queue.",
		},
	)

	ConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradinggame_ws_connections_active",
			Help: "Open WebSocket connections.",
		},
	)

	ConnectionsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradinggame_ws_connections_dropped_total",
			Help: "WebSocket sends dropped because a client's outbound buffer was full.",
		},
	)

	SchedulerQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tradinggame_scheduler_queue_depth",
			Help: "Entities with a live worker goroutine in the dispatcher.",
		},
		[]string{"entity"}, // game|lobby
	)

	ActionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradinggame_action_latency_seconds",
			Help:    "Wall-clock time to reduce and persist one action.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"}, // game|lobby|matchmaking
	)
)

func init() {
	prometheus.MustRegister(
		TicksTotal,
		OrdersTotal,
		TradesTotal,
		GamesActive,
		LobbiesActive,
		QueueDepth,
		ConnectionsActive,
		ConnectionsDropped,
		SchedulerQueueDepth,
		ActionLatency,
	)
}

func IncTick(ok bool) {
	if ok {
		TicksTotal.WithLabelValues("ok").Inc()
	} else {
		TicksTotal.WithLabelValues("error").Inc()
	}
}

func IncOrder(action string) { OrdersTotal.WithLabelValues(action).Inc() }
func IncTrades(n int)        { TradesTotal.Add(float64(n)) }

func SetGamesActive(n int)   { GamesActive.Set(float64(n)) }
func SetLobbiesActive(n int) { LobbiesActive.Set(float64(n)) }
func SetQueueDepth(n int)    { QueueDepth.Set(float64(n)) }

func IncConnection()  { ConnectionsActive.Inc() }
func DecConnection()  { ConnectionsActive.Dec() }
func IncDropped()     { ConnectionsDropped.Inc() }

func SetSchedulerQueueDepth(entity string, n int) {
	SchedulerQueueDepth.WithLabelValues(entity).Set(float64(n))
}

func ObserveActionLatency(domain string, seconds float64) {
	ActionLatency.WithLabelValues(domain).Observe(seconds)
}
