package metrics

import (
	"errors"
	"time"

	"debate-tab-system/draw"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records draw generation and release activity. A nil *Collector
// is valid and records nothing.
type Collector struct {
	generations       *prometheus.CounterVec
	generationSeconds prometheus.Histogram
	rooms             prometheus.Counter
	swingTeams        prometheus.Counter
	roomCost          prometheus.Histogram
	releases          *prometheus.CounterVec
}

// New registers the collector's metrics with reg. A nil reg means
// prometheus.DefaultRegisterer and an empty namespace means "tab".
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "tab"
	}

	c := &Collector{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "generations_total",
			Help:      "Draw generation attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		generationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "generation_seconds",
			Help:      "Time spent generating a draw, storage excluded.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		rooms: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "rooms_total",
			Help:      "Rooms produced by successful generations.",
		}),
		swingTeams: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "swing_teams_total",
			Help:      "Swing teams inserted to fill rooms.",
		}),
		roomCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "room_cost",
			Help:      "Cost of each generated room after optimisation.",
			Buckets:   []float64{0, 100, 200, 300, 600, 1000, 2000, 4000},
		}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "releases_total",
			Help:      "Draws released to the public by trigger (manual or scheduled).",
		}, []string{"trigger"}),
	}
	reg.MustRegister(c.generations, c.generationSeconds, c.rooms, c.swingTeams, c.roomCost, c.releases)
	return c
}

// ObserveGeneration records one Generate or Regenerate call.
func (c *Collector) ObserveGeneration(method draw.Method, draws []draw.DrawRoom, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, draw.ErrInsufficientInput):
		outcome = "insufficient_input"
	case err != nil:
		outcome = "error"
	}
	c.generations.WithLabelValues(string(method), outcome).Inc()
	if err != nil {
		return
	}

	c.generationSeconds.Observe(elapsed.Seconds())
	c.rooms.Add(float64(len(draws)))
	for _, d := range draws {
		c.swingTeams.Add(float64(d.SwingCount()))
		c.roomCost.Observe(d.Cost)
	}
}

// ObserveRelease counts a released round.
func (c *Collector) ObserveRelease(trigger string) {
	if c == nil {
		return
	}
	c.releases.WithLabelValues(trigger).Inc()
}

// Handler serves g in the Prometheus text format.
func Handler(g prometheus.Gatherer) fiber.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
