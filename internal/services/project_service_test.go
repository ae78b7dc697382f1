package services

import (
	"testing"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type projectTestEnv struct {
	db             *gorm.DB
	projectRepo    repository.ProjectRepository
	projectService *ProjectService
	accessService  *AccessService
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectCollaborator{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Note{},
		&models.Command{},
		&models.Credential{},
		&models.Message{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	planService := NewPlanService(projectRepo, communityRepo, userRepo)
	projectService := NewProjectService(projectRepo, planService)
	accessService := NewAccessService(projectRepo, communityRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return projectTestEnv{
		db:             db,
		projectRepo:    projectRepo,
		projectService: projectService,
		accessService:  accessService,
	}
}

func createProjectTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: "hashed",
		Plan:         models.PlanFree,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, env projectTestEnv, owner *models.User, name string) *models.Project {
	t.Helper()
	project, err := env.projectService.CreateProject(owner, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return project
}

func TestProjectService_Share_CreatesPendingEntry(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	collab, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)
	require.Equal(t, "b@example.com", collab.Email)
	require.True(t, collab.IsPending())

	listing, err := env.projectService.ListForUser(99, "b@example.com")
	require.NoError(t, err)
	require.Empty(t, listing.Shared)
	require.Len(t, listing.Pending, 1)
	require.Equal(t, project.ID, listing.Pending[0].ProjectID)
}

func TestProjectService_Share_DuplicateRejected(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)

	// A second invite for the same email must not create a second row,
	// regardless of state
	_, err = env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleProjectAdmin)
	require.ErrorIs(t, err, ErrAlreadyShared)

	collabs, err := env.projectRepo.ListCollaborators(project.ID)
	require.NoError(t, err)
	require.Len(t, collabs, 1)
	require.Equal(t, models.RoleCollaborator, collabs[0].Role)
}

func TestProjectService_Share_OnlyOwner(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	other := createProjectTestUser(t, env.db, "other@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, other.ID, other.Email, "b@example.com", models.RoleCollaborator)
	require.ErrorIs(t, err, ErrNotProjectOwner)
}

func TestProjectService_Share_SelfInviteRejected(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "Owner@Example.com", models.RoleCollaborator)
	require.ErrorIs(t, err, ErrCannotInviteSelf)
}

func TestProjectService_Share_InvalidRole(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.ProjectRole("Manager"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestProjectService_AcceptInvite(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)

	collab, err := env.projectService.AcceptInvite(project.ID, "b@example.com")
	require.NoError(t, err)
	require.True(t, collab.IsAccepted())

	listing, err := env.projectService.ListForUser(99, "b@example.com")
	require.NoError(t, err)
	require.Len(t, listing.Shared, 1)
	require.Empty(t, listing.Pending)
}

func TestProjectService_AcceptInvite_SecondAcceptFails(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)

	_, err = env.projectService.AcceptInvite(project.ID, "b@example.com")
	require.NoError(t, err)

	// The entry is no longer pending, so a second accept finds nothing to
	// transition
	_, err = env.projectService.AcceptInvite(project.ID, "b@example.com")
	require.ErrorIs(t, err, ErrInviteAlreadyResolved)
}

func TestProjectService_AcceptInvite_NoInvitation(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.AcceptInvite(project.ID, "stranger@example.com")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestProjectService_DeclineInvite_RemovesEntry(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)

	require.NoError(t, env.projectService.DeclineInvite(project.ID, "b@example.com"))

	// Decline deletes the entry; a later accept has nothing to work with
	_, err = env.projectService.AcceptInvite(project.ID, "b@example.com")
	require.ErrorIs(t, err, ErrInviteNotFound)

	collabs, err := env.projectRepo.ListCollaborators(project.ID)
	require.NoError(t, err)
	require.Empty(t, collabs)
}

func TestProjectService_Unshare_OwnerRemovesCollaborator(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)
	_, err = env.projectService.AcceptInvite(project.ID, "b@example.com")
	require.NoError(t, err)

	require.NoError(t, env.projectService.Unshare(project.ID, owner.ID, owner.Email, "b@example.com"))

	collabs, err := env.projectRepo.ListCollaborators(project.ID)
	require.NoError(t, err)
	require.Empty(t, collabs)
}

func TestProjectService_Unshare_SelfRemoval(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	collaborator := createProjectTestUser(t, env.db, "b@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, collaborator.Email, models.RoleCollaborator)
	require.NoError(t, err)

	// A pending invitee may also remove their own entry
	require.NoError(t, env.projectService.Unshare(project.ID, collaborator.ID, collaborator.Email, collaborator.Email))
}

func TestProjectService_Unshare_ThirdPartyForbidden(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	stranger := createProjectTestUser(t, env.db, "c@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)

	err = env.projectService.Unshare(project.ID, stranger.ID, stranger.Email, "b@example.com")
	require.ErrorIs(t, err, ErrUnshareNotAllowed)

	// The failed removal must leave the entry untouched
	collabs, err := env.projectRepo.ListCollaborators(project.ID)
	require.NoError(t, err)
	require.Len(t, collabs, 1)
}

func TestProjectService_LegacyRowCountsAsAccepted(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	// Rows created before the invitation flow have no accepted flag at all
	legacy := &models.ProjectCollaborator{
		ProjectID: project.ID,
		Email:     "legacy@example.com",
		Role:      models.RoleCollaborator,
		Accepted:  nil,
	}
	require.NoError(t, env.db.Create(legacy).Error)

	listing, err := env.projectService.ListForUser(99, "legacy@example.com")
	require.NoError(t, err)
	require.Len(t, listing.Shared, 1)
	require.Empty(t, listing.Pending)

	access, err := env.accessService.ResolveProject(project.ID, 99, "legacy@example.com")
	require.NoError(t, err)
	require.True(t, access.CanWrite())

	// And accepting a legacy row is not possible: it is already resolved
	_, err = env.projectService.AcceptInvite(project.ID, "legacy@example.com")
	require.ErrorIs(t, err, ErrInviteAlreadyResolved)
}

func TestProjectService_DeleteProject_CascadesScopedData(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "b@example.com", models.RoleCollaborator)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.Note{ProjectID: project.ID, Title: "n", AuthorID: owner.ID}).Error)
	require.NoError(t, env.db.Create(&models.Task{ProjectID: project.ID, Title: "t", CreatorID: owner.ID, Status: models.TaskStatusTodo}).Error)

	require.NoError(t, env.projectService.DeleteProject(project.ID))

	var collabCount, noteCount, taskCount int64
	env.db.Model(&models.ProjectCollaborator{}).Where("project_id = ?", project.ID).Count(&collabCount)
	env.db.Model(&models.Note{}).Where("project_id = ?", project.ID).Count(&noteCount)
	env.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount)
	require.Zero(t, collabCount)
	require.Zero(t, noteCount)
	require.Zero(t, taskCount)

	err = env.projectService.DeleteProject(project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_EmailNormalization(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	project := createTestProject(t, env, owner, "Website")

	_, err := env.projectService.Share(project.ID, owner.ID, owner.Email, "  B@Example.COM ", models.RoleCollaborator)
	require.NoError(t, err)

	collab, err := env.projectRepo.FindCollaborator(project.ID, "b@example.com")
	require.NoError(t, err)
	require.Equal(t, "b@example.com", collab.Email)
}
