package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
)

// ClassBand is the target percentage of an asset class and its tolerance band.
type ClassBand struct {
	Target float64 `json:"target"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// AssetRebalanceConfig is the effective configuration of AssetRebalanceStrategy.
type AssetRebalanceConfig struct {
	Targets                 map[AssetClass]ClassBand `json:"targets"`
	ExecutionWindowDays     int                      `json:"execution_window_days"`
	MinPositionForRebalance float64                  `json:"min_position_for_rebalance"`
}

// DefaultAssetRebalanceConfig returns the built-in 70/10/20 allocation.
func DefaultAssetRebalanceConfig() AssetRebalanceConfig {
	return AssetRebalanceConfig{
		Targets: map[AssetClass]ClassBand{
			AssetClassEquity: {Target: 70, Min: 65, Max: 75},
			AssetClassBond:   {Target: 10, Min: 8, Max: 12},
			AssetClassGold:   {Target: 20, Min: 16, Max: 24},
		},
		ExecutionWindowDays:     5,
		MinPositionForRebalance: 80,
	}
}

type partialBand struct {
	Target *float64 `json:"target"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// ParseAssetRebalanceConfig merges a stored override over the defaults key by
// key. A class that is absent, or a band that sets only some of target, min and
// max, keeps the default value for every key it does not set.
//
// An invalid key falls back to its default alone: a bad band keeps the default
// band of that class, a bad scalar keeps the default scalar. The returned
// config is always usable; the error lists every rejected key.
func ParseAssetRebalanceConfig(raw map[string]any) (AssetRebalanceConfig, error) {
	cfg := DefaultAssetRebalanceConfig()
	var errs []error

	if v, ok := raw["targets"]; ok {
		targets, isObject := v.(map[string]any)
		if !isObject {
			errs = append(errs, invalidConfig("targets must be an object"))
		}
		for _, name := range slices.Sorted(maps.Keys(targets)) {
			band, err := mergeBand(cfg.Targets, AssetClass(name), targets[name])
			if err != nil {
				errs = append(errs, err)
				continue
			}
			cfg.Targets[AssetClass(name)] = band
		}
	}

	if v, ok := raw["execution_window_days"]; ok {
		var days int
		switch {
		case decodeValue(v, &days) != nil:
			errs = append(errs, invalidConfig("execution_window_days must be an integer"))
		case days < 1 || days > 31:
			errs = append(errs, invalidConfig("execution_window_days must be between 1 and 31"))
		default:
			cfg.ExecutionWindowDays = days
		}
	}

	if v, ok := raw["min_position_for_rebalance"]; ok {
		var floor float64
		switch {
		case decodeValue(v, &floor) != nil:
			errs = append(errs, invalidConfig("min_position_for_rebalance must be a number"))
		case floor < 0:
			errs = append(errs, invalidConfig("min_position_for_rebalance cannot be negative"))
		default:
			cfg.MinPositionForRebalance = floor
		}
	}

	return cfg, errors.Join(errs...)
}

// mergeBand applies an override to the default band of class.
func mergeBand(defaults map[AssetClass]ClassBand, class AssetClass, raw any) (ClassBand, error) {
	band, known := defaults[class]
	if !known {
		return ClassBand{}, invalidConfig("unknown asset class %q", class)
	}

	var override partialBand
	if err := decodeValue(raw, &override); err != nil {
		return ClassBand{}, invalidConfig("%s: band must be an object of numbers", class)
	}
	if override.Target != nil {
		band.Target = *override.Target
	}
	if override.Min != nil {
		band.Min = *override.Min
	}
	if override.Max != nil {
		band.Max = *override.Max
	}

	if band.Min > band.Max {
		return ClassBand{}, invalidConfig("%s min %.2f exceeds max %.2f", class, band.Min, band.Max)
	}
	if band.Target < band.Min || band.Target > band.Max {
		return ClassBand{}, invalidConfig("%s target %.2f is outside its band %.2f-%.2f", class, band.Target, band.Min, band.Max)
	}
	return band, nil
}

// decodeValue converts a generic JSON value into dst through a JSON round trip.
func decodeValue(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidStrategyConfig, fmt.Sprintf(format, args...))
}
