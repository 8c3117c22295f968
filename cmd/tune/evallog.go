package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// evalLog writes one CSV row per evaluation, prints progress and remembers
// the best parameters seen.
type evalLog struct {
	file   *os.File
	w      *csv.Writer
	params *ParamVector

	total int
	count int
	start time.Time

	bestFitness float64
	best        []float64
}

func newEvalLog(path string, params *ParamVector, total int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}

	l := &evalLog{
		file:        f,
		w:           csv.NewWriter(f),
		params:      params,
		total:       total,
		start:       time.Now(),
		bestFitness: math.Inf(1),
	}
	header := []string{"eval", "fitness", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// Record logs one evaluation.
func (l *evalLog) Record(values []float64, fitness, quality float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = append(l.best[:0], values...)
	}

	row := []string{strconv.Itoa(l.count), strconv.FormatFloat(fitness, 'f', 6, 64), strconv.FormatFloat(quality, 'f', 4, 64)}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	l.w.Write(row)
	l.w.Flush()

	elapsed := time.Since(l.start)
	eta := time.Duration(l.total-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("Eval %d/%d: quality=%.3f (best=%.3f) | elapsed: %s, ETA: %s\n",
		l.count, l.total, quality, -l.bestFitness, formatDuration(elapsed), formatDuration(eta))
}

// Best returns the best parameter values recorded, nil before any evaluation.
func (l *evalLog) Best() []float64 {
	return l.best
}

// Summary prints the best parameters by config path.
func (l *evalLog) Summary() {
	fmt.Printf("\nTuning complete after %d evaluations in %s\n", l.count, formatDuration(time.Since(l.start)))
	fmt.Printf("Best quality: %.3f\n\nBest parameters:\n", -l.bestFitness)
	for i, spec := range l.params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Path, l.best[i])
	}
}

// Close flushes and closes the log file.
func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
