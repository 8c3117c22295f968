package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/game"
	"github.com/pthm-cable/crawl/telemetry"
)

// FitnessEvaluator runs headless simulations and scores their telemetry.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Every seed runs in its own goroutine on its own config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(x, s)
			if err != nil {
				// Parameters the engine rejects score as badly as possible.
				return
			}
			qualities[idx] = computeQuality(windows)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, q := range qualities {
		total += q
	}
	avg := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = avg
	fe.mu.Unlock()

	return -avg
}

// runSimulation executes one headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.WindowStats, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.New(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		windows = append(windows, stats)
	})

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows, nil
}

// Quality component weights.
const (
	qualityWeightGait   = 0.45
	qualityWeightGroups = 0.30
	qualityWeightMotion = 0.25

	qualityWarmupWindows = 1 // skip the first window while the population settles

	targetEmergencyRate = 0.05 // emergency steps per step
	targetCrawlShare    = 0.5  // share of the population crawling
)

// computeQuality scores a run in [0, 1]. Smooth gaits, pyramids that keep
// forming and a lively population all score high.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var gaitSum, groupSum, motionSum float64
	var n int
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Population == 0 || w.Steps == 0 {
			continue
		}
		n++

		r := w.EmergencyRate / targetEmergencyRate
		gaitSum += math.Exp(-r * r)

		groupSum += 1 - math.Exp(-float64(w.GroupsFormed+w.ActiveGroups)/2)

		share := float64(w.Crawling) / float64(w.Population)
		d := (share - targetCrawlShare) / 0.25
		motionSum += math.Exp(-d * d)
	}
	if n == 0 {
		return 0
	}

	fn := float64(n)
	quality := qualityWeightGait*gaitSum/fn +
		qualityWeightGroups*groupSum/fn +
		qualityWeightMotion*motionSum/fn
	return max(0, min(1, quality))
}
