// Package obs wires the simulation's observability triad: a tracer, a
// meter, and a structured logger, all scoped under the module's own
// instrumentation name, the way the backend services in this codebase do.
package obs

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const name = "github.com/trafficgrid/sim"

var (
	Tracer trace.Tracer  = otel.Tracer(name)
	Meter  metric.Meter  = otel.Meter(name)
	Logger               = otelslog.NewLogger(name)
)

// TickDuration and TicksProcessed are the two instruments every tick feeds
// (a histogram and a counter); both are created once, in init.
var (
	tickDuration   metric.Float64Histogram
	ticksProcessed metric.Int64Counter
)

func init() {
	var err error
	tickDuration, err = Meter.Float64Histogram(
		"trafficsim.tick.duration_seconds",
		metric.WithDescription("wall-clock seconds spent advancing one simulation tick"),
	)
	if err != nil {
		panic(err)
	}
	ticksProcessed, err = Meter.Int64Counter(
		"trafficsim.tick.count",
		metric.WithDescription("number of simulation ticks advanced"),
	)
	if err != nil {
		panic(err)
	}
}

// TickDuration returns the histogram instrument ticks record their
// elapsed wall-clock time against.
func TickDuration() metric.Float64Histogram { return tickDuration }

// TicksProcessed returns the counter instrument ticks increment.
func TicksProcessed() metric.Int64Counter { return ticksProcessed }
