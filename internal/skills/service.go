package skills

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// CategoryAll is the synthetic filter entry matching every skill.
const CategoryAll = "All"

const defaultPopularLimit = 6

// Service exposes read-only views over the skill data set. Every method
// loads from the Source anew; there is no cross-request cache.
type Service struct {
	source Source
}

// NewService wires a Service with the provided data source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// List returns skills, optionally filtered to one category. An empty
// category or CategoryAll returns everything.
func (s *Service) List(ctx context.Context, category string) ([]Skill, error) {
	all, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	if category == "" || category == CategoryAll {
		return all, nil
	}

	filtered := make([]Skill, 0, len(all))
	for _, skill := range all {
		if skill.Category == category {
			filtered = append(filtered, skill)
		}
	}
	return filtered, nil
}

// Categories derives the distinct category set in order of first occurrence,
// with CategoryAll prepended.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	all, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := []string{CategoryAll}
	seen := map[string]bool{}
	for _, skill := range all {
		if !seen[skill.Category] {
			seen[skill.Category] = true
			categories = append(categories, skill.Category)
		}
	}
	return categories, nil
}

// Get returns the skill with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (Skill, error) {
	all, err := s.source.Load(ctx)
	if err != nil {
		return Skill{}, fmt.Errorf("get skill: %w", err)
	}

	for _, skill := range all {
		if skill.SkillID == id {
			return skill, nil
		}
	}
	return Skill{}, ErrNotFound
}

// Popular returns the top-rated skills, highest rating first. Ties keep the
// data set's order. A non-positive limit uses the home page default.
func (s *Service) Popular(ctx context.Context, limit int) ([]Skill, error) {
	all, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("popular skills: %w", err)
	}

	if limit <= 0 {
		limit = defaultPopularLimit
	}

	ranked := slices.Clone(all)
	slices.SortStableFunc(ranked, func(a, b Skill) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// SearchByProvider is a helper view for the home page's provider spotlight:
// skills grouped under a case-insensitive provider name match.
func (s *Service) SearchByProvider(ctx context.Context, providerName string) ([]Skill, error) {
	all, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("search skills: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(providerName))
	if query == "" {
		return nil, nil
	}

	var matched []Skill
	for _, skill := range all {
		if strings.Contains(strings.ToLower(skill.ProviderName), query) {
			matched = append(matched, skill)
		}
	}
	return matched, nil
}
