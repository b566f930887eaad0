package analytics

import (
	"fmt"
	"strings"
)

// KgToLbs converts stored kilograms to pounds for reports in lbs.
const KgToLbs = 2.20462

type Unit string

const (
	UnitKg  Unit = "kg"
	UnitLbs Unit = "lbs"
)

// FromKg converts a stored kilogram value to the unit.
func (u Unit) FromKg(v float64) float64 {
	if u == UnitLbs {
		return v * KgToLbs
	}
	return v
}

func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitKg:
		return UnitKg, nil
	case UnitLbs, "lb":
		return UnitLbs, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

type FrequencyPolicy struct {
	DefaultWindowDays int     `toml:"default_window_days"`
	TargetPerWeek     float64 `toml:"target_per_week"`
	FrequencyWeight   float64 `toml:"frequency_weight"`
	GapAllowanceDays  int     `toml:"gap_allowance_days"`
	GapPenaltyPerDay  float64 `toml:"gap_penalty_per_day"`
	TrendMinPoints    int     `toml:"trend_min_points"`
	TrendUpFactor     float64 `toml:"trend_up_factor"`
	TrendDownFactor   float64 `toml:"trend_down_factor"`
}

var DefaultFrequencyPolicy = FrequencyPolicy{
	DefaultWindowDays: 30,
	TargetPerWeek:     3.5,
	FrequencyWeight:   70,
	GapAllowanceDays:  3,
	GapPenaltyPerDay:  5,
	TrendMinPoints:    4,
	TrendUpFactor:     1.1,
	TrendDownFactor:   0.9,
}

type ProgressionPolicy struct {
	DefaultWindowDays int `toml:"default_window_days"`

	// TrendThresholdLbs is the first-to-last max weight change, in lbs, needed to call
	// the trend increasing or decreasing. Reports in kg compare against the converted value.
	TrendThresholdLbs float64 `toml:"trend_threshold_lbs"`
}

var DefaultProgressionPolicy = ProgressionPolicy{
	DefaultWindowDays: 90,
	TrendThresholdLbs: 5,
}

// TrendThreshold returns the threshold in the given reporting unit.
func (p ProgressionPolicy) TrendThreshold(unit Unit) float64 {
	if unit == UnitLbs {
		return p.TrendThresholdLbs
	}
	return p.TrendThresholdLbs / KgToLbs
}

type PlateauPolicy struct {
	LookbackDays       int      `toml:"lookback_days"`
	MinSessions        int      `toml:"min_sessions"`
	WindowSessions     int      `toml:"window_sessions"`
	FlatGrowth         float64  `toml:"flat_growth"`
	MinSpanDays        int      `toml:"min_span_days"`
	Recommendations    []string `toml:"recommendations"`
	ProgressingMessage string   `toml:"progressing_message"`
}

var DefaultPlateauPolicy = PlateauPolicy{
	LookbackDays:   90,
	MinSessions:    4,
	WindowSessions: 5,
	FlatGrowth:     0.025,
	MinSpanDays:    14,
	Recommendations: []string{
		"Implement a deload week (reduce volume by 40-50%).",
		"Switch to a variation of this exercise (e.g., Incline instead of Flat).",
		"Check your protein intake (aim for 1g per lb of bodyweight).",
		"Ensure you are sleeping 7-9 hours per night.",
		"Try changing your rep range (e.g., if doing 5x5, try 3x10).",
	},
	ProgressingMessage: "Keep pushing! You are making progress.",
}

// GroupRange is the ideal share of exercises, in percent, for one muscle group.
type GroupRange struct {
	Group string  `toml:"group"`
	Min   float64 `toml:"min"`
	Max   float64 `toml:"max"`
}

type BalancePolicy struct {
	WindowDays int `toml:"window_days"`

	// IdealRanges is ordered; imbalances are reported in this order.
	IdealRanges   []GroupRange      `toml:"ideal_ranges"`
	Aliases       map[string]string `toml:"aliases"`
	PushPullRatio float64           `toml:"push_pull_ratio"`
	DeficitWeight float64           `toml:"deficit_weight"`
	ExcessWeight  float64           `toml:"excess_weight"`
}

var DefaultBalancePolicy = BalancePolicy{
	WindowDays: 90,
	IdealRanges: []GroupRange{
		{Group: "chest", Min: 8, Max: 15},
		{Group: "back", Min: 12, Max: 20},
		{Group: "shoulders", Min: 8, Max: 15},
		{Group: "arms", Min: 10, Max: 18},
		{Group: "legs", Min: 20, Max: 30},
		{Group: "core", Min: 5, Max: 12},
		{Group: "glutes", Min: 8, Max: 15},
	},
	Aliases: map[string]string{
		"quadriceps": "legs",
		"hamstrings": "legs",
		"calves":     "legs",
		"abductors":  "legs",
		"adductors":  "legs",
		"lats":       "back",
		"upper_back": "back",
		"lower_back": "back",
		"traps":      "back",
		"biceps":     "arms",
		"triceps":    "arms",
		"forearms":   "arms",
		"abdominals": "core",
		"obliques":   "core",
		"glutes":     "glutes",
	},
	PushPullRatio: 1.3,
	DeficitWeight: 2,
	ExcessWeight:  1.5,
}

// Policies groups every tunable constant used by the engine.
type Policies struct {
	Unit        Unit
	Frequency   FrequencyPolicy
	Progression ProgressionPolicy
	Plateau     PlateauPolicy
	Balance     BalancePolicy
}

func DefaultPolicies() Policies {
	return Policies{
		Unit:        UnitKg,
		Frequency:   DefaultFrequencyPolicy,
		Progression: DefaultProgressionPolicy,
		Plateau:     DefaultPlateauPolicy,
		Balance:     DefaultBalancePolicy,
	}
}

// canonicalGroup maps a resolved muscle group through the alias table.
// Groups without an alias keep their own (lowercased) name.
func (p BalancePolicy) canonicalGroup(group string) string {
	g := strings.ToLower(strings.TrimSpace(group))
	if alias, ok := p.Aliases[g]; ok {
		return alias
	}
	return g
}
