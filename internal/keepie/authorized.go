package keepie

import (
	"encoding/json"
	"fmt"
	"os"
)

// AuthorizedStore reads the allow-list of destination urls for a tier.
// The backing file is a plain JSON array of urls, owned by an operator;
// it is read fresh on every broker tick so edits take effect within one
// interval and nothing is cached across ticks.
type AuthorizedStore struct {
	files map[Tier]string
}

func NewAuthorizedStore(readonlyFile, writeFile string) *AuthorizedStore {
	return &AuthorizedStore{
		files: map[Tier]string{
			TierReadonly: readonlyFile,
			TierWrite:    writeFile,
		},
	}
}

func (s *AuthorizedStore) File(tier Tier) string {
	return s.files[tier]
}

// Load returns the allow-listed urls for tier. It fails closed: a
// missing or malformed file is an error, never an empty authorization
// of everything.
func (s *AuthorizedStore) Load(tier Tier) ([]string, error) {
	path, ok := s.files[tier]
	if !ok {
		return nil, fmt.Errorf("no authorized file configured for tier '%s'", tier)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading authorized urls for tier '%s': %w", tier, err)
	}

	var urls []string
	if err := json.Unmarshal(b, &urls); err != nil {
		return nil, fmt.Errorf("parsing authorized urls for tier '%s': %w", tier, err)
	}

	return urls, nil
}
