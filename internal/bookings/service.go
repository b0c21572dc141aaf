package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"skillswap/internal/skills"
)

// ErrValidation anchors booking input failures for errors.Is checks.
var ErrValidation = errors.New("validation error")

// ValidationError reports every missing or invalid field at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ". ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Request is the booking form payload.
type Request struct {
	Name  string
	Email string
}

// Confirmation is the result of a successful booking submission. Nothing is
// persisted: submissions are independent, and submitting the same form twice
// yields two confirmations. That is the intended contract, not an oversight.
type Confirmation struct {
	SkillID   int       `json:"skillId"`
	SkillName string    `json:"skillName"`
	Message   string    `json:"message"`
	BookedAt  time.Time `json:"bookedAt"`
}

// SkillFinder locates the skill being booked.
type SkillFinder interface {
	Get(ctx context.Context, id int) (skills.Skill, error)
}

// Service validates booking submissions and emits confirmations.
type Service struct {
	finder SkillFinder
	logger *slog.Logger
}

// NewService wires a booking Service.
func NewService(finder SkillFinder, logger *slog.Logger) *Service {
	return &Service{finder: finder, logger: logger}
}

// Submit validates the request against the named skill and returns a
// confirmation. Slot counts are not decremented and no record is kept.
func (s *Service) Submit(ctx context.Context, skillID int, req Request) (Confirmation, error) {
	var violations []string
	if strings.TrimSpace(req.Name) == "" {
		violations = append(violations, "Name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		violations = append(violations, "Email is required")
	}
	if len(violations) > 0 {
		return Confirmation{}, &ValidationError{Violations: violations}
	}

	skill, err := s.finder.Get(ctx, skillID)
	if err != nil {
		if errors.Is(err, skills.ErrNotFound) {
			return Confirmation{}, skills.ErrNotFound
		}
		return Confirmation{}, fmt.Errorf("load skill: %w", err)
	}

	s.logger.Info("session booked",
		"skill_id", skill.SkillID,
		"skill", skill.SkillName,
		"attendee", strings.TrimSpace(req.Name),
	)

	return Confirmation{
		SkillID:   skill.SkillID,
		SkillName: skill.SkillName,
		Message:   "Session booked successfully!",
		BookedAt:  time.Now(),
	}, nil
}
