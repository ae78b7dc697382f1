package handlers

import (
	"net/http"
	"strconv"

	"github.com/devspacehq/devspace-api/internal/database"
	apierrors "github.com/devspacehq/devspace-api/internal/errors"
	"github.com/devspacehq/devspace-api/internal/middleware"
	"github.com/devspacehq/devspace-api/internal/models"
	"github.com/devspacehq/devspace-api/internal/vault"
	"github.com/gin-gonic/gin"
)

// CredentialHandler stores project secrets encrypted at rest. Credentials
// are the one project resource pending collaborators cannot read.
type CredentialHandler struct {
	vault *vault.Vault
}

func NewCredentialHandler(v *vault.Vault) *CredentialHandler {
	return &CredentialHandler{vault: v}
}

// ListCredentials returns credential metadata without secrets. Requires an
// accepted share.
func (h *CredentialHandler) ListCredentials(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Credentials require an accepted share")
		return
	}

	var credentials []models.Credential
	if err := database.GetDB().
		Where("project_id = ?", access.Project.ID).
		Order("created_at DESC").
		Find(&credentials).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"credentials": credentials,
	})
}

// GetCredential returns a single credential with the decrypted secret.
func (h *CredentialHandler) GetCredential(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Credentials require an accepted share")
		return
	}

	credentialID, err := strconv.ParseUint(c.Param("credential_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid credential ID")
		return
	}

	var credential models.Credential
	if err := database.GetDB().
		Where("id = ? AND project_id = ?", credentialID, access.Project.ID).
		First(&credential).Error; err != nil {
		apierrors.NotFound(c, "Credential not found")
		return
	}

	secret, err := h.vault.Decrypt(credential.SecretCiphertext)
	if err != nil {
		apierrors.InternalError(c, "Failed to decrypt credential")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"credential": credential,
		"secret":     secret,
	})
}

// CreateCredential stores a new credential. The secret is encrypted before
// it reaches the database.
func (h *CredentialHandler) CreateCredential(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Credentials require an accepted share")
		return
	}

	type CreateCredentialRequest struct {
		Label    string `json:"label" binding:"required"`
		Username string `json:"username"`
		Secret   string `json:"secret" binding:"required"`
	}

	var req CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ciphertext, err := h.vault.Encrypt(req.Secret)
	if err != nil {
		apierrors.InternalError(c, "Failed to encrypt credential")
		return
	}

	credential := models.Credential{
		ProjectID:        access.Project.ID,
		Label:            req.Label,
		Username:         req.Username,
		SecretCiphertext: ciphertext,
	}

	if err := database.GetDB().Create(&credential).Error; err != nil {
		apierrors.InternalError(c, "Failed to create credential")
		return
	}

	c.JSON(http.StatusCreated, credential)
}

// UpdateCredential updates a credential; a new secret re-encrypts.
func (h *CredentialHandler) UpdateCredential(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Credentials require an accepted share")
		return
	}

	credentialID, err := strconv.ParseUint(c.Param("credential_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid credential ID")
		return
	}

	var credential models.Credential
	if err := database.GetDB().
		Where("id = ? AND project_id = ?", credentialID, access.Project.ID).
		First(&credential).Error; err != nil {
		apierrors.NotFound(c, "Credential not found")
		return
	}

	type UpdateCredentialRequest struct {
		Label    string `json:"label" binding:"required"`
		Username string `json:"username"`
		Secret   string `json:"secret"`
	}

	var req UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	credential.Label = req.Label
	credential.Username = req.Username
	if req.Secret != "" {
		ciphertext, err := h.vault.Encrypt(req.Secret)
		if err != nil {
			apierrors.InternalError(c, "Failed to encrypt credential")
			return
		}
		credential.SecretCiphertext = ciphertext
	}

	if err := database.GetDB().Save(&credential).Error; err != nil {
		apierrors.InternalError(c, "Failed to update credential")
		return
	}

	c.JSON(http.StatusOK, credential)
}

// DeleteCredential deletes a credential.
func (h *CredentialHandler) DeleteCredential(c *gin.Context) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		apierrors.InternalError(c, "Project access not resolved")
		return
	}
	if !access.CanWrite() {
		apierrors.Forbidden(c, "Credentials require an accepted share")
		return
	}

	credentialID, err := strconv.ParseUint(c.Param("credential_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid credential ID")
		return
	}

	result := database.GetDB().
		Where("id = ? AND project_id = ?", credentialID, access.Project.ID).
		Delete(&models.Credential{})
	if result.Error != nil {
		apierrors.InternalError(c, "Failed to delete credential")
		return
	}
	if result.RowsAffected == 0 {
		apierrors.NotFound(c, "Credential not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Credential deleted successfully",
	})
}
