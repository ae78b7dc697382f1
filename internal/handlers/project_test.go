package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/devspacehq/devspace-api/internal/constants"
	"github.com/devspacehq/devspace-api/internal/database"
	"github.com/devspacehq/devspace-api/internal/dto"
	apierrors "github.com/devspacehq/devspace-api/internal/errors"
	"github.com/devspacehq/devspace-api/internal/middleware"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/repository"
	"github.com/devspacehq/devspace-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type projectTestRig struct {
	db     *gorm.DB
	router *gin.Engine
}

// headerIdentity stands in for the session middleware so tests can pick a
// caller per request.
func headerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.GetHeader("X-Test-User-ID"), 10, 64)
		email := c.GetHeader("X-Test-User-Email")
		if err != nil || id == 0 || email == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyUserID, id)
		c.Set(constants.ContextKeyUserEmail, email)
		c.Next()
	}
}

func setupProjectTestRig(t *testing.T) projectTestRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
		&models.Notification{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	accessService := services.NewAccessService(projectRepo, communityRepo)
	planService := services.NewPlanService(projectRepo, communityRepo, userRepo)
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, planService)
	notificationService := services.NewNotificationService(notificationRepo, communityRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, accessService, notificationService, nil)

	projectHandler := NewProjectHandler(projectService, authService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	projects := r.Group("/api/projects")
	projects.Use(headerIdentity())
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)

		// Invitation routes resolve access in the service so callers
		// without an invitation see 404
		projects.POST("/:id/invitation/accept", projectHandler.AcceptInvite)
		projects.POST("/:id/invitation/decline", projectHandler.DeclineInvite)
		projects.POST("/:id/tasks", taskHandler.CreateTask)

		projectAccess := middleware.RequireProjectAccess(accessService)
		projects.GET("/:id", projectAccess, projectHandler.GetProject)
		projects.PATCH("/:id", projectAccess, projectHandler.UpdateProject)
		projects.POST("/:id/share", projectAccess, projectHandler.ShareProject)
		projects.DELETE("/:id/share/:email", projectAccess, projectHandler.UnshareProject)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return projectTestRig{db: db, router: r}
}

func createRigUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: "hashed",
		Plan:         models.PlanPro,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func (rig projectTestRig) do(t *testing.T, user *models.User, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User-ID", strconv.FormatUint(user.ID, 10))
	req.Header.Set("X-Test-User-Email", user.Email)

	w := httptest.NewRecorder()
	rig.router.ServeHTTP(w, req)
	return w
}

func TestProjectHandler_InvitationLifecycle(t *testing.T) {
	rig := setupProjectTestRig(t)

	owner := createRigUser(t, rig.db, "owner@example.com")
	invitee := createRigUser(t, rig.db, "invitee@example.com")

	// Owner creates a project
	w := rig.do(t, owner, http.MethodPost, "/api/projects", gin.H{"name": "Website"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	base := fmt.Sprintf("/api/projects/%d", project.ID)

	// Owner shares it; the entry starts pending
	w = rig.do(t, owner, http.MethodPost, base+"/share", gin.H{"email": invitee.Email, "role": "Collaborator"})
	require.Equal(t, http.StatusCreated, w.Code)
	var collab dto.CollaboratorDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &collab))
	require.False(t, collab.Accepted)

	// Sharing twice with the same email conflicts
	w = rig.do(t, owner, http.MethodPost, base+"/share", gin.H{"email": invitee.Email, "role": "Admin"})
	require.Equal(t, http.StatusConflict, w.Code)

	// Pending invitees can read the project but not modify it
	w = rig.do(t, invitee, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = rig.do(t, invitee, http.MethodPatch, base, gin.H{"name": "Hijacked"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// The invitation shows up in the invitee's pending set
	w = rig.do(t, invitee, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing dto.ProjectListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.PendingInvites, 1)
	require.Empty(t, listing.Shared)

	// Accept flips the entry and moves the project to the shared set
	w = rig.do(t, invitee, http.MethodPost, base+"/invitation/accept", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = rig.do(t, invitee, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Empty(t, listing.PendingInvites)
	require.Len(t, listing.Shared, 1)

	// Accepting again finds no pending invitation
	w = rig.do(t, invitee, http.MethodPost, base+"/invitation/accept", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// An accepted plain collaborator can now write the project but still
	// cannot manage tasks
	w = rig.do(t, invitee, http.MethodPatch, base, gin.H{"name": "Website v2"})
	require.Equal(t, http.StatusOK, w.Code)
	w = rig.do(t, invitee, http.MethodPost, base+"/tasks", gin.H{"title": "Ship it"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_DeclineThenAcceptIs404(t *testing.T) {
	rig := setupProjectTestRig(t)

	owner := createRigUser(t, rig.db, "owner@example.com")
	invitee := createRigUser(t, rig.db, "invitee@example.com")

	w := rig.do(t, owner, http.MethodPost, "/api/projects", gin.H{"name": "Website"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	base := fmt.Sprintf("/api/projects/%d", project.ID)

	w = rig.do(t, owner, http.MethodPost, base+"/share", gin.H{"email": invitee.Email, "role": "Collaborator"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = rig.do(t, invitee, http.MethodPost, base+"/invitation/decline", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The declined row is gone, so a later accept finds nothing
	w = rig.do(t, invitee, http.MethodPost, base+"/invitation/accept", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// And the declined user no longer resolves the project at all
	w = rig.do(t, invitee, http.MethodGet, base, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_StrangerSees403OnProjectAnd404OnInvite(t *testing.T) {
	rig := setupProjectTestRig(t)

	owner := createRigUser(t, rig.db, "owner@example.com")
	stranger := createRigUser(t, rig.db, "stranger@example.com")

	w := rig.do(t, owner, http.MethodPost, "/api/projects", gin.H{"name": "Website"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	base := fmt.Sprintf("/api/projects/%d", project.ID)

	// Access-gated routes reveal the project exists but deny it
	w = rig.do(t, stranger, http.MethodGet, base, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Invitation routes never leak a 403; no invitation means 404
	w = rig.do(t, stranger, http.MethodPost, base+"/invitation/accept", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// A project that does not exist is 404 either way
	w = rig.do(t, stranger, http.MethodGet, "/api/projects/9999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_UnsharePermissions(t *testing.T) {
	rig := setupProjectTestRig(t)

	owner := createRigUser(t, rig.db, "owner@example.com")
	collabA := createRigUser(t, rig.db, "a@example.com")
	collabB := createRigUser(t, rig.db, "b@example.com")

	w := rig.do(t, owner, http.MethodPost, "/api/projects", gin.H{"name": "Website"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	base := fmt.Sprintf("/api/projects/%d", project.ID)

	for _, u := range []*models.User{collabA, collabB} {
		w = rig.do(t, owner, http.MethodPost, base+"/share", gin.H{"email": u.Email, "role": "Collaborator"})
		require.Equal(t, http.StatusCreated, w.Code)
		w = rig.do(t, u, http.MethodPost, base+"/invitation/accept", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// A collaborator cannot remove another collaborator
	w = rig.do(t, collabA, http.MethodDelete, base+"/share/"+collabB.Email, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// But may leave the project themselves
	w = rig.do(t, collabA, http.MethodDelete, base+"/share/"+collabA.Email, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// And the owner can remove anyone
	w = rig.do(t, owner, http.MethodDelete, base+"/share/"+collabB.Email, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var remaining int64
	rig.db.Model(&models.ProjectCollaborator{}).Where("project_id = ?", project.ID).Count(&remaining)
	require.Zero(t, remaining)
}
