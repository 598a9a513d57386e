package keepie

import "fmt"

// Tier is a credential class. Each tier owns its own credential,
// allow-list and push schedule.
type Tier string

const (
	TierReadonly Tier = "readonly"
	TierWrite    Tier = "write"
)

var Tiers = []Tier{TierReadonly, TierWrite}

func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierReadonly:
		return TierReadonly, nil
	case TierWrite:
		return TierWrite, nil
	}
	return "", fmt.Errorf("unknown tier '%s'", s)
}

func (t Tier) String() string {
	return string(t)
}
