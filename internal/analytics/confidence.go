package analytics

import (
	"strings"

	"stock-predictor-go/internal/config"
)

// ConfidencePolicy turns relative volatility into a bounded confidence score:
// clamp(Base - volatility/price*Multiplier, Floor, Ceiling).
type ConfidencePolicy struct {
	Base       float64
	Multiplier float64
	Floor      float64
	Ceiling    float64
}

var (
	// SyntheticConfidence is the policy used with generated market data.
	SyntheticConfidence = ConfidencePolicy{Base: 95, Multiplier: 800, Floor: 75, Ceiling: 100}
	// LiveConfidence is the policy used with provider data.
	LiveConfidence = ConfidencePolicy{Base: 100, Multiplier: 1000, Floor: 70, Ceiling: 100}
)

// Score returns the clamped confidence for the given volatility ratio.
func (p ConfidencePolicy) Score(volatilityRatio float64) float64 {
	c := p.Base - volatilityRatio*p.Multiplier
	if c < p.Floor {
		c = p.Floor
	}
	if c > p.Ceiling {
		c = p.Ceiling
	}
	return c
}

// PolicyFromConfig resolves the configured preset, falling back to the
// preset that matches the market mode, then applies every override that is set.
func PolicyFromConfig(cfg config.Confidence, marketMode string) ConfidencePolicy {
	preset := strings.ToLower(cfg.Preset)
	if preset == "" {
		preset = marketMode
	}

	p := SyntheticConfidence
	if preset == config.ModeLive {
		p = LiveConfidence
	}

	if cfg.Base != nil {
		p.Base = *cfg.Base
	}
	if cfg.Multiplier != nil {
		p.Multiplier = *cfg.Multiplier
	}
	if cfg.Floor != nil {
		p.Floor = *cfg.Floor
	}
	if cfg.Ceiling != nil {
		p.Ceiling = *cfg.Ceiling
	}
	return p
}
