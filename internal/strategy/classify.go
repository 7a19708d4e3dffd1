package strategy

import "strings"

// AssetClass is the coarse bucket a fund is rebalanced in.
type AssetClass string

const (
	AssetClassEquity AssetClass = "equity"
	AssetClassBond   AssetClass = "bond"
	AssetClassGold   AssetClass = "gold"
)

// AssetClasses lists the buckets in reporting order.
var AssetClasses = []AssetClass{AssetClassEquity, AssetClassBond, AssetClassGold}

// Label returns the human readable name of the class.
func (c AssetClass) Label() string {
	switch c {
	case AssetClassBond:
		return "Bond"
	case AssetClassGold:
		return "Gold"
	default:
		return "Equity"
	}
}

var (
	bondMarkers = []string{"债", "bond", "debt", "fixed income"}
	goldMarkers = []string{"黄金", "贵金属", "gold", "precious metal"}
)

// ClassifyFund infers the asset class from a fund's free-text type label.
//
// This is a best-effort keyword match, not an authoritative classification:
// a debt or bond marker wins over a gold marker, and anything unrecognised,
// including an empty label, falls into equity.
func ClassifyFund(fundType string) AssetClass {
	ft := strings.ToLower(fundType)
	if containsAny(ft, bondMarkers) {
		return AssetClassBond
	}
	if containsAny(ft, goldMarkers) {
		return AssetClassGold
	}
	return AssetClassEquity
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
