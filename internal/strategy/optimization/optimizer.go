package optimization

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
	"signalCore/internal/strategy"
	"signalCore/internal/strategy/analytics"
	"signalCore/internal/strategy/backtesting"
)

// ParameterRange defines a range for a parameter to sweep.
type ParameterRange struct {
	Name  string
	Min   float64
	Max   float64
	Step  float64
	IsInt bool
}

// Result holds the outcome of one parameter combination.
type Result struct {
	Parameters map[string]float64
	Metrics    *analytics.PerformanceMetrics
	Score      float64
}

// Config holds configuration for the optimizer.
type Config struct {
	ParameterRanges []ParameterRange
	InitialFunds    float64
	// Apply projects one parameter combination onto the base engine config.
	Apply func(base strategy.Config, params map[string]float64) strategy.Config
	// ScoreFunction ranks a replay's metrics; higher is better.
	ScoreFunction func(*analytics.PerformanceMetrics) float64
}

// Optimizer sweeps engine configurations over a grid of parameter values,
// replaying the same bar histories under each combination.
type Optimizer struct {
	config Config
	logger ports.Logger
}

// NewOptimizer creates a new optimizer instance.
func NewOptimizer(config Config, logger ports.Logger) (*Optimizer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for optimizer")
	}
	if config.Apply == nil {
		return nil, fmt.Errorf("%w: optimizer requires an Apply projection", ports.ErrConfigurationError)
	}
	if config.ScoreFunction == nil {
		config.ScoreFunction = DefaultScoreFunction
	}
	return &Optimizer{config: config, logger: logger}, nil
}

// Optimize replays every parameter combination and returns the results
// sorted by score, best first. Combinations that produce an invalid engine
// config are skipped. The result order is deterministic for identical
// inputs: the grid is generated in a fixed order and ties keep that order.
func (o *Optimizer) Optimize(ctx context.Context, base strategy.Config, series map[string][]*domain.Bar, htf map[string][]*domain.Bar) ([]Result, error) {
	combinations := o.generateParameterCombinations()
	results := make([]*Result, len(combinations))

	var wg sync.WaitGroup
	for idx, params := range combinations {
		wg.Add(1)
		go func(idx int, params map[string]float64) {
			defer wg.Done()

			cfg := o.config.Apply(base, params)
			eng, err := strategy.New(cfg, o.logger)
			if err != nil {
				o.logger.Warn(ctx, "Skipping parameter combination: invalid config", map[string]interface{}{
					"params": params,
					"reason": err.Error(),
				})
				return
			}

			replay, err := backtesting.Run(ctx, eng, series, htf, backtesting.Config{
				InitialFunds: o.config.InitialFunds,
				CloseAtEnd:   true,
			}, o.logger)
			if err != nil {
				o.logger.Warn(ctx, "Skipping parameter combination: replay failed", map[string]interface{}{
					"params": params,
					"reason": err.Error(),
				})
				return
			}

			metrics := analytics.AnalyzePerformance(replay.Trades, o.config.InitialFunds)
			results[idx] = &Result{
				Parameters: params,
				Metrics:    metrics,
				Score:      o.config.ScoreFunction(metrics),
			}
		}(idx, params)
	}
	wg.Wait()

	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// generateParameterCombinations expands the ranges into every combination,
// walking the ranges in declaration order so the grid order is stable.
func (o *Optimizer) generateParameterCombinations() []map[string]float64 {
	var combinations []map[string]float64
	current := make(map[string]float64)

	var generate func(int)
	generate = func(paramIndex int) {
		if paramIndex == len(o.config.ParameterRanges) {
			combination := make(map[string]float64, len(current))
			for k, v := range current {
				combination[k] = v
			}
			combinations = append(combinations, combination)
			return
		}

		param := o.config.ParameterRanges[paramIndex]
		value := param.Min
		for value <= param.Max+param.Step/2 { // epsilon for float comparison
			if param.IsInt {
				value = math.Round(value)
			}
			current[param.Name] = value
			generate(paramIndex + 1)
			value += param.Step
		}
	}

	generate(0)
	return combinations
}

// DefaultScoreFunction combines several metrics into a single score.
func DefaultScoreFunction(metrics *analytics.PerformanceMetrics) float64 {
	score := 0.0
	score += metrics.WinRate * 0.3
	score += metrics.ProfitFactor * 0.2
	score += (1 - metrics.MaxDrawdown) * 0.2
	score += metrics.ReturnOnInvestment * 0.2
	score += metrics.RiskRewardRatio * 0.1
	return score
}
