// Command tune searches the force factors for well-formed schooling using
// CMA-ES over headless runs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/shoal/config"
)

// evalRecord is one row of the evaluation log.
type evalRecord struct {
	Eval               int     `csv:"eval"`
	Fitness            float64 `csv:"fitness"`
	Quality            float64 `csv:"quality"`
	Attraction         float64 `csv:"attraction"`
	Repulsion          float64 `csv:"repulsion"`
	Alignment          float64 `csv:"alignment"`
	PredatorAttraction float64 `csv:"predator_attraction"`
	PredatorRepulsion  float64 `csv:"predator_repulsion"`
}

func main() {
	configPath := flag.String("config", "", "Base config file (empty = defaults)")
	maxTicks := flag.Int("max-ticks", 3600, "Ticks per simulation run")
	seedsStr := flag.String("seeds", "1,2,3", "Comma-separated seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum fitness evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = default)")
	outputDir := flag.String("output", "tune_results", "Output directory")
	flag.Parse()

	// Per-run world_state logs would drown the progress output
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(*configPath, int32(*maxTicks), *seedsStr, *maxEvals, *population, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "tune: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, maxTicks int32, seedsStr string, maxEvals, population int, outputDir string) error {
	seeds, err := parseSeeds(seedsStr)
	if err != nil {
		return err
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, maxTicks, seeds, baseCfg)

	logFile, err := os.Create(filepath.Join(outputDir, "evaluations.csv"))
	if err != nil {
		return fmt.Errorf("creating eval log: %w", err)
	}
	defer logFile.Close()

	var (
		records  []evalRecord
		evalNum  int
		bestFit  = math.Inf(1)
		bestX    []float64
		start    = time.Now()
		writeErr error
	)

	// CMA-ES works in normalized [0,1] space; the objective maps back.
	objective := func(x []float64) float64 {
		raw := params.Clamp(params.Denormalize(x))
		fitness := evaluator.Evaluate(raw)
		evalNum++

		rec := evalRecord{
			Eval:               evalNum,
			Fitness:            fitness,
			Quality:            evaluator.LastQuality(),
			Attraction:         raw[0],
			Repulsion:          raw[1],
			Alignment:          raw[2],
			PredatorAttraction: raw[3],
			PredatorRepulsion:  raw[4],
		}
		if len(records) == 0 {
			writeErr = gocsv.Marshal([]evalRecord{rec}, logFile)
		} else {
			writeErr = gocsv.MarshalWithoutHeaders([]evalRecord{rec}, logFile)
		}
		records = append(records, rec)

		if fitness < bestFit {
			bestFit = fitness
			bestX = raw
			fmt.Printf("[%d] new best fitness=%.4f quality=%.4f (%s)\n",
				evalNum, fitness, rec.Quality, time.Since(start).Round(time.Second))
		}
		return fitness
	}

	problem := optimize.Problem{Func: objective}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   population,
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0,
	}

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	fmt.Printf("tuning %d params, %d seeds x %d ticks, up to %d evals\n",
		params.Dim(), len(seeds), maxTicks, maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if bestX == nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	if err != nil {
		fmt.Printf("optimization ended: %v\n", err)
	}
	if writeErr != nil {
		return fmt.Errorf("writing eval log: %w", writeErr)
	}
	if result != nil {
		fmt.Printf("finished: status=%v evals=%d\n", result.Status, evalNum)
	}

	best := *baseCfg
	params.ApplyToConfig(&best, bestX)
	bestPath := filepath.Join(outputDir, "best_config.yaml")
	if err := best.WriteYAML(bestPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}

	fmt.Printf("best fitness %.4f written to %s\n", bestFit, bestPath)
	for i, spec := range params.Specs {
		fmt.Printf("  %-20s %g\n", spec.Path, bestX[i])
	}
	return nil
}

func parseSeeds(s string) ([]int64, error) {
	var seeds []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", part, err)
		}
		seeds = append(seeds, v)
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seeds given")
	}
	return seeds, nil
}
