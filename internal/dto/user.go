package dto

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// CurrentUserDTO is the richer shape returned for the authenticated user
// themselves.
type CurrentUserDTO struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Plan      models.Plan `json:"plan"`
	Birthday  *time.Time  `json:"birthday"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToCurrentUserDTO converts a User model to CurrentUserDTO
func ToCurrentUserDTO(user models.User) CurrentUserDTO {
	return CurrentUserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Plan:      user.Plan,
		Birthday:  user.Birthday,
		CreatedAt: user.CreatedAt,
	}
}
