package users

import (
	"context"
	"errors"
	"strings"

	"justiplay-backend/internal/shared/telemetry"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the user identity from OAuth to stabilize history
// and progress ownership. Role and XP of an existing user are untouched.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	user.Role = NormalizeRole(string(user.Role))
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// SetRole switches a user between citizen and student.
func (s *Service) SetRole(ctx context.Context, userID, role string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	switch Role(role) {
	case RoleCitizen, RoleStudent:
	default:
		return errors.New("role must be citizen or student")
	}
	return s.Repo.SetRole(ctx, userID, Role(role))
}

// DocumentAnalyzed awards XP to students for a completed analysis. Failures
// only cost progress, never the analysis, so errors are logged and dropped.
func (s *Service) DocumentAnalyzed(ctx context.Context, userID string) {
	if s == nil || s.Repo == nil || strings.TrimSpace(userID) == "" {
		return
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil || user.Role != RoleStudent {
		return
	}
	updated, err := s.Repo.AddXP(ctx, userID, XPPerAnalysis)
	if err != nil {
		telemetry.Error("users.xp_award_failed", map[string]any{
			"user_id": userID, "error": err.Error(),
		})
		return
	}
	telemetry.Info("users.xp_awarded", map[string]any{
		"user_id": userID,
		"xp":      updated.XP,
		"level":   StatsForXP(updated.XP).Level,
	})
}
