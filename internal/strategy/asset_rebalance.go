package strategy

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// AssetRebalanceStrategyName is the registry key of AssetRebalanceStrategy.
const AssetRebalanceStrategyName = "asset_rebalance"

// Metadata actions specific to AssetRebalanceStrategy.
const (
	actionFillPosition = "fill_position"
	actionRebalance    = "rebalance"
)

// AssetRebalanceStrategy keeps the equity, bond and gold buckets inside their
// target bands. Trades are only proposed during the last days of each month,
// and only once the overall position has reached a configurable floor.
type AssetRebalanceStrategy struct{}

// NewAssetRebalanceStrategy creates an AssetRebalanceStrategy.
func NewAssetRebalanceStrategy() *AssetRebalanceStrategy {
	return &AssetRebalanceStrategy{}
}

func (s *AssetRebalanceStrategy) Name() string        { return AssetRebalanceStrategyName }
func (s *AssetRebalanceStrategy) DisplayName() string { return "Asset class rebalance" }
func (s *AssetRebalanceStrategy) Description() string {
	return "Sets target weights for equity, bond and gold. When a class drifts outside its band, suggests rebalancing trades inside the month-end execution window."
}

// ConfigSchema implements Strategy.
func (s *AssetRebalanceStrategy) ConfigSchema() map[string]any {
	band := func(label string) map[string]any {
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"target": map[string]any{"type": "number", "description": label + " target weight %"},
				"min":    map[string]any{"type": "number", "description": label + " lower bound %"},
				"max":    map[string]any{"type": "number", "description": label + " upper bound %"},
			},
		}
	}
	targets := map[string]any{}
	for _, class := range AssetClasses {
		targets[string(class)] = band(class.Label())
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"targets": map[string]any{
				"type":        "object",
				"description": "Target weight and band per asset class",
				"properties":  targets,
			},
			"execution_window_days": map[string]any{
				"type":        "integer",
				"description": "Number of days at the end of each month in which trades are proposed",
			},
			"min_position_for_rebalance": map[string]any{
				"type":        "number",
				"description": "Minimum position % before rebalancing; below it the position is filled first",
			},
		},
	}
}

// ValidateConfig implements ConfigValidator.
func (s *AssetRebalanceStrategy) ValidateConfig(cfg map[string]any) error {
	_, err := ParseAssetRebalanceConfig(cfg)
	return err
}

// Evaluate implements Strategy.
func (s *AssetRebalanceStrategy) Evaluate(ctx model.PortfolioContext) model.StrategyResult {
	budget := ctx.TotalBudget
	if budget <= 0 {
		return newResult(s.Name(), noBudgetSummary)
	}

	cfg, cfgErr := ParseAssetRebalanceConfig(ctx.StrategyConfig)

	classValues := make(map[AssetClass]float64, len(AssetClasses))
	for _, class := range AssetClasses {
		classValues[class] = 0
	}
	for _, h := range ctx.Holdings {
		classValues[ClassifyFund(h.FundType)] += h.MarketValue
	}

	var total float64
	for _, class := range AssetClasses {
		total += classValues[class]
	}

	classRatios := make(map[AssetClass]float64, len(AssetClasses))
	for _, class := range AssetClasses {
		if total > 0 {
			classRatios[class] = classValues[class] / total * 100
		} else {
			classRatios[class] = 0
		}
	}

	if ctx.PositionRatio < cfg.MinPositionForRebalance {
		gap := budget*cfg.MinPositionForRebalance/100 - ctx.TotalValue
		res := newResult(s.Name(), fmt.Sprintf(
			"Position %.1f%% is below the %.0f%% required for rebalancing. Fill the position first (buy about %s), then rebalance asset classes.",
			ctx.PositionRatio, cfg.MinPositionForRebalance, money(gap)))
		res.Suggestions = append(res.Suggestions, model.SuggestionItem{
			FundCode: "",
			FundName: "Fill position",
			Action:   model.ActionBuy,
			Amount:   gap,
			Reason: fmt.Sprintf("Position %.1f%% is under %.0f%%; add to the position before rebalancing.",
				ctx.PositionRatio, cfg.MinPositionForRebalance),
		})
		res.Metadata["action"] = actionFillPosition
		res.Metadata["position_ratio"] = ctx.PositionRatio
		res.Metadata["min_position_for_rebalance"] = cfg.MinPositionForRebalance
		res.Metadata["gap"] = gap
		s.attachClassMetadata(res.Metadata, classRatios, classValues, cfgErr)
		return res
	}

	status := statusLines(cfg, classRatios)
	today := ctx.AsOf

	if !InExecutionWindow(today, cfg.ExecutionWindowDays) {
		start, end := executionWindow(today, cfg.ExecutionWindowDays)
		res := newResult(s.Name(), fmt.Sprintf(
			"Outside the execution window (this month's window: %s to %s).\n%s",
			start.Format("Jan 2"), end.Format("Jan 2"), status))
		res.Metadata["action"] = model.ActionHold
		res.Metadata["in_window"] = false
		res.Metadata["window_start"] = start.Format("2006-01-02")
		res.Metadata["window_end"] = end.Format("2006-01-02")
		s.attachClassMetadata(res.Metadata, classRatios, classValues, cfgErr)
		return res
	}

	res := newResult(s.Name(), "")
	var triggered []string
	for _, class := range AssetClasses {
		band := cfg.Targets[class]
		ratio := classRatios[class]
		targetValue := total * band.Target / 100

		switch {
		case ratio < band.Min:
			gap := targetValue - classValues[class]
			triggered = append(triggered, class.Label())
			res.Suggestions = append(res.Suggestions, model.SuggestionItem{
				FundCode: string(class),
				FundName: class.Label() + " assets",
				Action:   model.ActionBuy,
				Amount:   gap,
				Reason: fmt.Sprintf("%s weight %.1f%% is below the lower bound %g%%; buy about %s to reach the %g%% target.",
					class.Label(), ratio, band.Min, money(gap), band.Target),
			})
		case ratio > band.Max:
			excess := classValues[class] - targetValue
			triggered = append(triggered, class.Label())
			res.Suggestions = append(res.Suggestions, model.SuggestionItem{
				FundCode: string(class),
				FundName: class.Label() + " assets",
				Action:   model.ActionSell,
				Amount:   excess,
				Reason: fmt.Sprintf("%s weight %.1f%% is above the upper bound %g%%; sell about %s to return to the %g%% target.",
					class.Label(), ratio, band.Max, money(excess), band.Target),
			})
		}
	}

	if len(triggered) > 0 {
		res.Summary = fmt.Sprintf("Inside the execution window. Rebalancing triggered for: %s.\n%s",
			strings.Join(triggered, ", "), status)
		res.Metadata["action"] = actionRebalance
	} else {
		res.Summary = "Inside the execution window. All asset classes are within their bands; hold.\n" + status
		res.Metadata["action"] = model.ActionHold
	}
	res.Metadata["in_window"] = true
	s.attachClassMetadata(res.Metadata, classRatios, classValues, cfgErr)
	return res
}

func (s *AssetRebalanceStrategy) attachClassMetadata(meta map[string]any, ratios, values map[AssetClass]float64, cfgErr error) {
	r := make(map[string]float64, len(ratios))
	v := make(map[string]float64, len(values))
	for _, class := range AssetClasses {
		r[string(class)] = ratios[class]
		v[string(class)] = values[class]
	}
	meta["class_ratios"] = r
	meta["class_values"] = v
	if cfgErr != nil {
		meta["config_error"] = cfgErr.Error()
	}
}

func statusLines(cfg AssetRebalanceConfig, ratios map[AssetClass]float64) string {
	lines := make([]string, 0, len(AssetClasses))
	for _, class := range AssetClasses {
		band := cfg.Targets[class]
		lines = append(lines, fmt.Sprintf("%s: current %.1f%% (target %g%%, band %g%%-%g%%)",
			class.Label(), ratios[class], band.Target, band.Min, band.Max))
	}
	return strings.Join(lines, "\n")
}

// InExecutionWindow reports whether day falls in the last windowDays calendar
// days of its month.
func InExecutionWindow(day time.Time, windowDays int) bool {
	return day.Day() > daysInMonth(day)-windowDays
}

// executionWindow returns the first and last day of the window in day's month.
func executionWindow(day time.Time, windowDays int) (time.Time, time.Time) {
	last := daysInMonth(day)
	first := max(last-windowDays+1, 1)
	start := time.Date(day.Year(), day.Month(), first, 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), last, 0, 0, 0, 0, day.Location())
	return start, end
}

func daysInMonth(day time.Time) int {
	return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location()).Day()
}
