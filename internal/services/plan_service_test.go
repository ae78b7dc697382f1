package services

import (
	"fmt"
	"testing"

	"github.com/devspacehq/devspace-api/internal/constants"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestPlanService_FreePlanProjectLimit(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")

	for i := 0; i < constants.FreePlanMaxProjects; i++ {
		_, err := env.projectService.CreateProject(owner, CreateProjectInput{
			Name: fmt.Sprintf("Project %d", i),
		})
		require.NoError(t, err)
	}

	_, err := env.projectService.CreateProject(owner, CreateProjectInput{Name: "One too many"})
	require.ErrorIs(t, err, ErrPlanLimitReached)
}

func TestPlanService_ProPlanUnlimitedProjects(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	owner.Plan = models.PlanPro
	require.NoError(t, env.db.Save(owner).Error)

	for i := 0; i < constants.FreePlanMaxProjects+2; i++ {
		_, err := env.projectService.CreateProject(owner, CreateProjectInput{
			Name: fmt.Sprintf("Project %d", i),
		})
		require.NoError(t, err)
	}
}

func TestPlanService_FreePlanCommunityLimit(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")

	for i := 0; i < constants.FreePlanMaxCommunities; i++ {
		_, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{
			Name: fmt.Sprintf("Community %d", i),
		})
		require.NoError(t, err)
	}

	_, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "One too many"})
	require.ErrorIs(t, err, ErrPlanLimitReached)
}

func TestPlanService_UpgradeUnlocksQuota(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")

	for i := 0; i < constants.FreePlanMaxProjects; i++ {
		_, err := env.projectService.CreateProject(owner, CreateProjectInput{
			Name: fmt.Sprintf("Project %d", i),
		})
		require.NoError(t, err)
	}

	_, err := env.projectService.CreateProject(owner, CreateProjectInput{Name: "Blocked"})
	require.ErrorIs(t, err, ErrPlanLimitReached)

	owner.Plan = models.PlanPro
	require.NoError(t, env.db.Save(owner).Error)

	_, err = env.projectService.CreateProject(owner, CreateProjectInput{Name: "Unblocked"})
	require.NoError(t, err)
}
