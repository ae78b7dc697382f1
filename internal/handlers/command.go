package handlers

import (
	"net/http"
	"strconv"

	"github.com/devspacehq/devspace-api/internal/database"
	apierrors "github.com/devspacehq/devspace-api/internal/errors"
	"github.com/devspacehq/devspace-api/internal/middleware"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/gin-gonic/gin"
)

type CommandHandler struct{}

func NewCommandHandler() *CommandHandler {
	return &CommandHandler{}
}

// ListCommands returns a project's saved commands. Read access suffices.
func (h *CommandHandler) ListCommands(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}

	var commands []models.Command
	if err := database.GetDB().
		Where("project_id = ?", access.Project.ID).
		Order("created_at DESC").
		Find(&commands).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch commands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commands": commands,
	})
}

// CreateCommand saves a command. Requires write access.
func (h *CommandHandler) CreateCommand(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Accept the invitation before modifying this project")
		return
	}

	type CreateCommandRequest struct {
		Label   string `json:"label" binding:"required"`
		Command string `json:"command" binding:"required"`
	}

	var req CreateCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	command := models.Command{
		ProjectID: access.Project.ID,
		Label:     req.Label,
		Command:   req.Command,
	}

	if err := database.GetDB().Create(&command).Error; err != nil {
		apierrors.InternalError(c, "Failed to create command")
		return
	}

	c.JSON(http.StatusCreated, command)
}

// UpdateCommand updates a saved command. Requires write access.
func (h *CommandHandler) UpdateCommand(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Accept the invitation before modifying this project")
		return
	}

	commandID, err := strconv.ParseUint(c.Param("command_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid command ID")
		return
	}

	var command models.Command
	if err := database.GetDB().
		Where("id = ? AND project_id = ?", commandID, access.Project.ID).
		First(&command).Error; err != nil {
		apierrors.NotFound(c, "Command not found")
		return
	}

	type UpdateCommandRequest struct {
		Label   string `json:"label" binding:"required"`
		Command string `json:"command" binding:"required"`
	}

	var req UpdateCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	command.Label = req.Label
	command.Command = req.Command
	if err := database.GetDB().Save(&command).Error; err != nil {
		apierrors.InternalError(c, "Failed to update command")
		return
	}

	c.JSON(http.StatusOK, command)
}

// DeleteCommand deletes a saved command. Requires write access.
func (h *CommandHandler) DeleteCommand(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Accept the invitation before modifying this project")
		return
	}

	commandID, err := strconv.ParseUint(c.Param("command_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid command ID")
		return
	}

	result := database.GetDB().
		Where("id = ? AND project_id = ?", commandID, access.Project.ID).
		Delete(&models.Command{})
	if result.Error != nil {
		apierrors.InternalError(c, "Failed to delete command")
		return
	}
	if result.RowsAffected == 0 {
		apierrors.NotFound(c, "Command not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Command deleted successfully",
	})
}
