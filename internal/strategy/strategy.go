// Package strategy defines the rebalancing strategy contract, the built-in
// strategies and the registry they are looked up from.
//
// Strategies are stateless: Evaluate is a pure function of the PortfolioContext,
// including its AsOf date, so a single instance is shared by all requests.
package strategy

import (
	"github.com/dustin/go-humanize"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// Strategy is a named rule set that turns a portfolio snapshot into advice.
type Strategy interface {
	// Name is the unique registry key, also stored as the budget's active strategy.
	Name() string
	DisplayName() string
	Description() string
	// ConfigSchema is a JSON-schema style description of the accepted config.
	ConfigSchema() map[string]any
	Evaluate(ctx model.PortfolioContext) model.StrategyResult
}

// ConfigValidator is implemented by strategies whose config can be checked
// before it is stored.
type ConfigValidator interface {
	ValidateConfig(cfg map[string]any) error
}

// Info describes s for listing endpoints.
func Info(s Strategy) model.StrategyInfo {
	return model.StrategyInfo{
		Name:         s.Name(),
		DisplayName:  s.DisplayName(),
		Description:  s.Description(),
		ConfigSchema: s.ConfigSchema(),
	}
}

// ValidateConfig checks cfg against s when s supports validation.
func ValidateConfig(s Strategy, cfg map[string]any) error {
	if v, ok := s.(ConfigValidator); ok {
		return v.ValidateConfig(cfg)
	}
	return nil
}

func newResult(name, summary string) model.StrategyResult {
	return model.StrategyResult{
		StrategyName: name,
		Summary:      summary,
		Suggestions:  []model.SuggestionItem{},
		Metadata:     map[string]any{},
	}
}

const noBudgetSummary = "No investment budget is set yet. Set a budget first."

// money formats an amount with thousands separators and two decimals.
func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
