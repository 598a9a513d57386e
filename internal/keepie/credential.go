package keepie

import "github.com/statuspond/statuspond/internal/util"

// Credential is the name/secret pair pushed to authorized destinations.
// It is generated at process start, lives in memory only and is never
// persisted.
type Credential struct {
	Name   string
	Secret string
}

func NewCredential(tier Tier) Credential {
	return Credential{
		Name:   tier.String(),
		Secret: util.RandStringBytes(32),
	}
}
