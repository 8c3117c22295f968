// Package main searches gait and grouping parameters with CMA-ES, scoring
// headless runs on step smoothness, pyramid formation and crawl activity.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/crawl/config"
)

type options struct {
	configPath string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 36000, "Simulation length per run in ticks")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), seeds, baseCfg)

	elog, err := newEvalLog(filepath.Join(opts.outputDir, "tune_log.csv"), params, opts.maxEvals)
	if err != nil {
		return err
	}
	defer elog.Close()

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			elog.Record(values, fitness, evaluator.LastQuality())
			return fitness
		},
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n", params.Dim(), popSize, opts.maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", opts.seeds, opts.maxTicks)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := elog.Best()
	if best == nil {
		return fmt.Errorf("no evaluation completed")
	}
	elog.Summary()

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, best)
	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", out)
	return nil
}
