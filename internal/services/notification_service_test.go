package services

import (
	"testing"
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type notificationTestEnv struct {
	db                  *gorm.DB
	notificationService *NotificationService
	communityService    *CommunityService
	meetingService      *MeetingService
}

func setupNotificationTestEnv(t *testing.T) notificationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectCollaborator{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Meeting{},
		&models.Message{},
		&models.Notification{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	accessService := NewAccessService(projectRepo, communityRepo)
	planService := NewPlanService(projectRepo, communityRepo, userRepo)
	communityService := NewCommunityService(communityRepo, userRepo, accessService, planService)
	notificationService := NewNotificationService(notificationRepo, communityRepo, userRepo)
	meetingService := NewMeetingService(meetingRepo, accessService, notificationService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return notificationTestEnv{
		db:                  db,
		notificationService: notificationService,
		communityService:    communityService,
		meetingService:      meetingService,
	}
}

func createNotificationTestUser(t *testing.T, db *gorm.DB, email string, birthday *time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: "hashed",
		Plan:         models.PlanFree,
		Birthday:     birthday,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// joinCommunity invites and accepts in one step
func joinCommunity(t *testing.T, env notificationTestEnv, communityID, ownerID, userID uint64, role models.CommunityRole) {
	t.Helper()
	_, err := env.communityService.Invite(communityID, ownerID, userID, role)
	require.NoError(t, err)
	_, err = env.communityService.AcceptInvite(communityID, userID)
	require.NoError(t, err)
}

func TestNotificationService_MeetingStartedFanOut(t *testing.T) {
	env := setupNotificationTestEnv(t)

	owner := createNotificationTestUser(t, env.db, "owner@example.com", nil)
	member := createNotificationTestUser(t, env.db, "member@example.com", nil)
	pending := createNotificationTestUser(t, env.db, "pending@example.com", nil)

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)
	joinCommunity(t, env, community.ID, owner.ID, member.ID, models.RoleCommunityMember)
	_, err = env.communityService.Invite(community.ID, owner.ID, pending.ID, models.RoleCommunityMember)
	require.NoError(t, err)

	meeting, err := env.meetingService.Start(community.ID, Caller{ID: owner.ID, Email: owner.Email}, "Standup")
	require.NoError(t, err)
	require.NotEmpty(t, meeting.RoomID)
	require.NotEmpty(t, meeting.AccessCode)

	// The accepted member hears about it; the starter and the pending
	// invitee do not
	var memberCount, ownerCount, pendingCount int64
	env.db.Model(&models.Notification{}).Where("user_id = ? AND kind = ?", member.ID, models.NotificationMeetingStarted).Count(&memberCount)
	env.db.Model(&models.Notification{}).Where("user_id = ?", owner.ID).Count(&ownerCount)
	env.db.Model(&models.Notification{}).Where("user_id = ?", pending.ID).Count(&pendingCount)
	require.Equal(t, int64(1), memberCount)
	require.Zero(t, ownerCount)
	require.Zero(t, pendingCount)
}

func TestNotificationService_BirthdayFanOut(t *testing.T) {
	env := setupNotificationTestEnv(t)

	now := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	birthday := time.Date(1994, time.March, 14, 0, 0, 0, 0, time.UTC)
	otherDay := time.Date(1990, time.July, 2, 0, 0, 0, 0, time.UTC)

	owner := createNotificationTestUser(t, env.db, "owner@example.com", nil)
	celebrant := createNotificationTestUser(t, env.db, "celebrant@example.com", &birthday)
	bystander := createNotificationTestUser(t, env.db, "bystander@example.com", &otherDay)

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)
	joinCommunity(t, env, community.ID, owner.ID, celebrant.ID, models.RoleCommunityMember)
	joinCommunity(t, env, community.ID, owner.ID, bystander.ID, models.RoleCommunityMember)

	require.NoError(t, env.notificationService.NotifyBirthdays(now))

	// Everyone in the celebrant's communities except the celebrant is told
	var ownerCount, bystanderCount, celebrantCount int64
	env.db.Model(&models.Notification{}).Where("user_id = ? AND kind = ?", owner.ID, models.NotificationBirthday).Count(&ownerCount)
	env.db.Model(&models.Notification{}).Where("user_id = ? AND kind = ?", bystander.ID, models.NotificationBirthday).Count(&bystanderCount)
	env.db.Model(&models.Notification{}).Where("user_id = ? AND kind = ?", celebrant.ID, models.NotificationBirthday).Count(&celebrantCount)
	require.Equal(t, int64(1), ownerCount)
	require.Equal(t, int64(1), bystanderCount)
	require.Zero(t, celebrantCount)
}

func TestNotificationService_MarkRead_OwnershipEnforced(t *testing.T) {
	env := setupNotificationTestEnv(t)

	alice := createNotificationTestUser(t, env.db, "alice@example.com", nil)
	bob := createNotificationTestUser(t, env.db, "bob@example.com", nil)

	notification := models.Notification{
		UserID:  alice.ID,
		Kind:    models.NotificationTaskAssigned,
		Message: "You were assigned",
	}
	require.NoError(t, env.db.Create(&notification).Error)

	// Another user's notification reads as missing
	err := env.notificationService.MarkRead(notification.ID, bob.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, env.notificationService.MarkRead(notification.ID, alice.ID))

	var reloaded models.Notification
	require.NoError(t, env.db.First(&reloaded, notification.ID).Error)
	require.NotNil(t, reloaded.ReadAt)
}

func TestMeetingService_Lifecycle(t *testing.T) {
	env := setupNotificationTestEnv(t)

	owner := createNotificationTestUser(t, env.db, "owner@example.com", nil)
	member := createNotificationTestUser(t, env.db, "member@example.com", nil)

	community, err := env.communityService.CreateCommunity(owner, CreateCommunityInput{Name: "Gophers"})
	require.NoError(t, err)
	joinCommunity(t, env, community.ID, owner.ID, member.ID, models.RoleCommunityMember)

	// Plain members cannot start meetings
	_, err = env.meetingService.Start(community.ID, Caller{ID: member.ID}, "Standup")
	require.ErrorIs(t, err, ErrNotCommunityAdmin)

	meeting, err := env.meetingService.Start(community.ID, Caller{ID: owner.ID}, "Standup")
	require.NoError(t, err)

	meetings, err := env.meetingService.List(community.ID, Caller{ID: member.ID})
	require.NoError(t, err)
	require.Len(t, meetings, 1)

	// Only the starter or the owner may end it
	_, err = env.meetingService.End(meeting.ID, Caller{ID: member.ID})
	require.ErrorIs(t, err, ErrEndNotAllowed)

	ended, err := env.meetingService.End(meeting.ID, Caller{ID: owner.ID})
	require.NoError(t, err)
	require.NotNil(t, ended.EndedAt)

	// Ending twice is a conflict
	_, err = env.meetingService.End(meeting.ID, Caller{ID: owner.ID})
	require.ErrorIs(t, err, ErrMeetingEnded)
}
