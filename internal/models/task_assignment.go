package models

import "time"

// TaskAssignment links a task to an assignee. Assignees are identified by
// email, like project collaborators.
type TaskAssignment struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	Email     string    `gorm:"primarykey;type:varchar(255)" json:"email"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
