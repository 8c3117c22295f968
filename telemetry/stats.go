package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population by state at window end
	Population int `csv:"population"`
	Crawling   int `csv:"crawling"`
	Stopping   int `csv:"stopping"`
	Scared     int `csv:"scared"`
	Recovering int `csv:"recovering"`
	Grouped    int `csv:"grouped"`

	// Transitions during window
	Scares          int `csv:"scares"`
	Recoveries      int `csv:"recoveries"`
	GroupsFormed    int `csv:"groups_formed"`
	GroupsDisbanded int `csv:"groups_disbanded"`
	Joins           int `csv:"joins"`
	Leaves          int `csv:"leaves"`

	// Gait
	Steps          int     `csv:"steps"`
	EmergencySteps int     `csv:"emergency_steps"`
	EmergencyRate  float64 `csv:"emergency_rate"`

	// Motion (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	DropMean  float64 `csv:"drop_mean"`

	// Groups
	ActiveGroups  int     `csv:"active_groups"`
	MeanGroupSize float64 `csv:"mean_group_size"`
	MaxGroupSize  int     `csv:"max_group_size"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, population std and empirical
// percentiles. An empty sample yields all zeros.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("crawling", s.Crawling),
		slog.Int("stopping", s.Stopping),
		slog.Int("scared", s.Scared),
		slog.Int("recovering", s.Recovering),
		slog.Int("grouped", s.Grouped),
		slog.Int("scares", s.Scares),
		slog.Int("recoveries", s.Recoveries),
		slog.Int("groups_formed", s.GroupsFormed),
		slog.Int("groups_disbanded", s.GroupsDisbanded),
		slog.Int("joins", s.Joins),
		slog.Int("leaves", s.Leaves),
		slog.Int("steps", s.Steps),
		slog.Int("emergency_steps", s.EmergencySteps),
		slog.Float64("emergency_rate", s.EmergencyRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("drop_mean", s.DropMean),
		slog.Int("active_groups", s.ActiveGroups),
		slog.Float64("mean_group_size", s.MeanGroupSize),
		slog.Int("max_group_size", s.MaxGroupSize),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"crawling", s.Crawling,
		"stopping", s.Stopping,
		"scared", s.Scared,
		"recovering", s.Recovering,
		"grouped", s.Grouped,
		"scares", s.Scares,
		"groups_formed", s.GroupsFormed,
		"groups_disbanded", s.GroupsDisbanded,
		"steps", s.Steps,
		"emergency_steps", s.EmergencySteps,
		"speed_mean", s.SpeedMean,
		"active_groups", s.ActiveGroups,
		"max_group_size", s.MaxGroupSize,
	)
}
