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

type NoteHandler struct{}

func NewNoteHandler() *NoteHandler {
	return &NoteHandler{}
}

// ListNotes returns a project's notes. Read access suffices.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}

	var notes []models.Note
	if err := database.GetDB().
		Where("project_id = ?", access.Project.ID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
	})
}

// CreateNote creates a note. Requires write access.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Accept the invitation before modifying this project")
		return
	}

	userID, _ := middleware.GetUserID(c)

	type CreateNoteRequest struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note := models.Note{
		ProjectID: access.Project.ID,
		Title:     req.Title,
		Body:      req.Body,
		AuthorID:  userID,
	}

	if err := database.GetDB().Create(&note).Error; err != nil {
		apierrors.InternalError(c, "Failed to create note")
		return
	}

	c.JSON(http.StatusCreated, note)
}

// UpdateNote updates a note's title and body. Requires write access.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Accept the invitation before modifying this project")
		return
	}

	noteID, err := strconv.ParseUint(c.Param("note_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid note ID")
		return
	}

	var note models.Note
	if err := database.GetDB().
		Where("id = ? AND project_id = ?", noteID, access.Project.ID).
		First(&note).Error; err != nil {
		apierrors.NotFound(c, "Note not found")
		return
	}

	type UpdateNoteRequest struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body"`
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note.Title = req.Title
	note.Body = req.Body
	if err := database.GetDB().Save(&note).Error; err != nil {
		apierrors.InternalError(c, "Failed to update note")
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote deletes a note. Requires write access.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Accept the invitation before modifying this project")
		return
	}

	noteID, err := strconv.ParseUint(c.Param("note_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid note ID")
		return
	}

	result := database.GetDB().
		Where("id = ? AND project_id = ?", noteID, access.Project.ID).
		Delete(&models.Note{})
	if result.Error != nil {
		apierrors.InternalError(c, "Failed to delete note")
		return
	}
	if result.RowsAffected == 0 {
		apierrors.NotFound(c, "Note not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Note deleted successfully",
	})
}
