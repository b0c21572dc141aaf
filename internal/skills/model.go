package skills

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a skill cannot be located.
var ErrNotFound = errors.New("skill not found")

// Skill is a static, read-only catalog entry. The data set is reference
// data bundled with the deployment; there is no write path.
type Skill struct {
	SkillID        int     `json:"skillId"`
	SkillName      string  `json:"skillName"`
	Category       string  `json:"category"`
	ProviderName   string  `json:"providerName"`
	ProviderEmail  string  `json:"providerEmail"`
	Price          float64 `json:"price"`
	Rating         float64 `json:"rating"`
	SlotsAvailable int     `json:"slotsAvailable"`
	Description    string  `json:"description"`
	Image          string  `json:"image"`
}

// Source provides the skill data set. Implementations re-read on every call;
// the listing views intentionally do not cache between requests.
type Source interface {
	Load(ctx context.Context) ([]Skill, error)
}
