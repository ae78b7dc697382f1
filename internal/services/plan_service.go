package services

import (
	"errors"
	"fmt"

	"github.com/devspacehq/devspace-api/internal/constants"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
)

var (
	ErrPlanLimitReached = errors.New("plan limit reached")
	ErrInvalidPlan      = errors.New("invalid plan")
)

// PlanService gates resource creation on the owner's subscription tier.
// Payment processing lives outside this service; it only enforces limits.
type PlanService struct {
	projectRepo   repository.ProjectRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
}

// NewPlanService creates a new PlanService.
func NewPlanService(projectRepo repository.ProjectRepository, communityRepo repository.CommunityRepository, userRepo repository.UserRepository) *PlanService {
	return &PlanService{
		projectRepo:   projectRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
	}
}

// CheckProjectQuota returns ErrPlanLimitReached when the user's plan does
// not allow another owned project.
func (s *PlanService) CheckProjectQuota(user *models.User) error {
	if user.Plan == models.PlanPro {
		return nil
	}

	count, err := s.projectRepo.CountOwnedBy(user.ID)
	if err != nil {
		return fmt.Errorf("failed to count projects: %w", err)
	}

	if count >= constants.FreePlanMaxProjects {
		return ErrPlanLimitReached
	}
	return nil
}

// CheckCommunityQuota returns ErrPlanLimitReached when the user's plan does
// not allow another owned community.
func (s *PlanService) CheckCommunityQuota(user *models.User) error {
	if user.Plan == models.PlanPro {
		return nil
	}

	count, err := s.communityRepo.CountOwnedBy(user.ID)
	if err != nil {
		return fmt.Errorf("failed to count communities: %w", err)
	}

	if count >= constants.FreePlanMaxCommunities {
		return ErrPlanLimitReached
	}
	return nil
}

// ChangePlan switches a user's tier. In production this is driven by the
// payment provider's webhook.
func (s *PlanService) ChangePlan(userID uint64, plan models.Plan) error {
	if plan != models.PlanFree && plan != models.PlanPro {
		return ErrInvalidPlan
	}
	if err := s.userRepo.UpdatePlan(userID, plan); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}
