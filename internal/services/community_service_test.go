package services

import (
	"testing"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type communityTestEnv struct {
	db               *gorm.DB
	communityRepo    repository.CommunityRepository
	communityService *CommunityService
}

func setupCommunityTestEnv(t *testing.T) communityTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectCollaborator{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Message{},
		&models.Meeting{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	accessService := NewAccessService(projectRepo, communityRepo)
	planService := NewPlanService(projectRepo, communityRepo, userRepo)
	communityService := NewCommunityService(communityRepo, userRepo, accessService, planService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return communityTestEnv{
		db:               db,
		communityRepo:    communityRepo,
		communityService: communityService,
	}
}

func createCommunityTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
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

func TestCommunityService_InviteLifecycle(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")
	invitee := createCommunityTestUser(t, env.db, "invitee@example.com")

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)

	member, err := env.communityService.Invite(community.ID, owner.ID, invitee.ID, models.RoleCommunityMember)
	require.NoError(t, err)
	require.True(t, member.IsPending())

	listing, err := env.communityService.ListForUser(invitee.ID)
	require.NoError(t, err)
	require.Empty(t, listing.Joined)
	require.Len(t, listing.Pending, 1)

	accepted, err := env.communityService.AcceptInvite(community.ID, invitee.ID)
	require.NoError(t, err)
	require.True(t, accepted.IsAccepted())

	listing, err = env.communityService.ListForUser(invitee.ID)
	require.NoError(t, err)
	require.Len(t, listing.Joined, 1)
	require.Empty(t, listing.Pending)

	// Second accept fails: the entry is no longer pending
	_, err = env.communityService.AcceptInvite(community.ID, invitee.ID)
	require.ErrorIs(t, err, ErrInviteAlreadyResolved)
}

func TestCommunityService_Invite_DuplicateRejected(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")
	invitee := createCommunityTestUser(t, env.db, "invitee@example.com")

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, owner.ID, invitee.ID, models.RoleCommunityMember)
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, owner.ID, invitee.ID, models.RoleCommunityAdmin)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestCommunityService_Invite_RequiresAdmin(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")
	member := createCommunityTestUser(t, env.db, "member@example.com")
	target := createCommunityTestUser(t, env.db, "target@example.com")

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, owner.ID, member.ID, models.RoleCommunityMember)
	require.NoError(t, err)
	_, err = env.communityService.AcceptInvite(community.ID, member.ID)
	require.NoError(t, err)

	// A plain member cannot invite
	_, err = env.communityService.Invite(community.ID, member.ID, target.ID, models.RoleCommunityMember)
	require.ErrorIs(t, err, ErrNotCommunityAdmin)

	// An accepted admin can
	admin := createCommunityTestUser(t, env.db, "admin@example.com")
	_, err = env.communityService.Invite(community.ID, owner.ID, admin.ID, models.RoleCommunityAdmin)
	require.NoError(t, err)
	_, err = env.communityService.AcceptInvite(community.ID, admin.ID)
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, admin.ID, target.ID, models.RoleCommunityMember)
	require.NoError(t, err)
}

func TestCommunityService_Invite_UnknownUser(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")
	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, owner.ID, 12345, models.RoleCommunityMember)
	require.ErrorIs(t, err, ErrInviteeNotFound)
}

func TestCommunityService_DeclineInvite_RemovesRow(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")
	invitee := createCommunityTestUser(t, env.db, "invitee@example.com")

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, owner.ID, invitee.ID, models.RoleCommunityMember)
	require.NoError(t, err)

	require.NoError(t, env.communityService.DeclineInvite(community.ID, invitee.ID))

	_, err = env.communityService.AcceptInvite(community.ID, invitee.ID)
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestCommunityService_RemoveMember_Permissions(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")
	member := createCommunityTestUser(t, env.db, "member@example.com")
	other := createCommunityTestUser(t, env.db, "other@example.com")

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, owner.ID, member.ID, models.RoleCommunityMember)
	require.NoError(t, err)
	_, err = env.communityService.AcceptInvite(community.ID, member.ID)
	require.NoError(t, err)

	// A third party cannot remove someone else's membership
	err = env.communityService.RemoveMember(community.ID, other.ID, member.ID)
	require.ErrorIs(t, err, ErrRemoveNotAllowed)

	// Members may leave on their own
	require.NoError(t, env.communityService.RemoveMember(community.ID, member.ID, member.ID))

	_, err = env.communityRepo.FindMember(community.ID, member.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommunityService_DeleteCommunity_Cascades(t *testing.T) {
	env := setupCommunityTestEnv(t)

	owner := createCommunityTestUser(t, env.db, "owner@example.com")
	member := createCommunityTestUser(t, env.db, "member@example.com")

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)

	_, err = env.communityService.Invite(community.ID, owner.ID, member.ID, models.RoleCommunityMember)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.Message{Body: "hi", AuthorID: owner.ID, CommunityID: &community.ID}).Error)

	require.NoError(t, env.communityService.DeleteCommunity(community.ID))

	var memberCount, messageCount int64
	env.db.Model(&models.CommunityMember{}).Where("community_id = ?", community.ID).Count(&memberCount)
	env.db.Model(&models.Message{}).Where("community_id = ?", community.ID).Count(&messageCount)
	require.Zero(t, memberCount)
	require.Zero(t, messageCount)
}
