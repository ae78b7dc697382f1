package dto

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
)

// MessageDTO represents a chat or discussion message in API responses
type MessageDTO struct {
	ID        uint64    `json:"id"`
	Body      string    `json:"body"`
	AuthorID  uint64    `json:"author_id"`
	Author    *UserDTO  `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageListResponse represents a paginated list of messages
type MessageListResponse struct {
	Messages   []MessageDTO `json:"messages"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int          `json:"total_pages"`
}

// ToMessageDTO converts a Message model to MessageDTO
func ToMessageDTO(message models.Message) MessageDTO {
	dto := MessageDTO{
		ID:        message.ID,
		Body:      message.Body,
		AuthorID:  message.AuthorID,
		CreatedAt: message.CreatedAt,
	}

	// Include author if preloaded
	if message.Author.ID != 0 {
		author := ToUserDTO(message.Author)
		dto.Author = &author
	}

	return dto
}

// ToMessageListResponse converts a slice of messages to MessageListResponse
func ToMessageListResponse(messages []models.Message, page, pageSize int, totalCount int64) MessageListResponse {
	items := make([]MessageDTO, len(messages))
	for i, message := range messages {
		items[i] = ToMessageDTO(message)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return MessageListResponse{
		Messages:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
