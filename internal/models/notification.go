package models

import "time"

// NotificationType controls how a notification is shown
type NotificationType string

const (
	NotifyInfo     NotificationType = "info"
	NotifySuccess  NotificationType = "success"
	NotifyWarning  NotificationType = "warning"
	NotifyError    NotificationType = "error"
	NotifyReminder NotificationType = "reminder"
)

// Notification is a message for the user
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string           `gorm:"not null" json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `gorm:"default:info" json:"type"`
	Read    bool             `gorm:"default:false;index" json:"read"`
	TaskID  *uint            `json:"task_id,omitempty"`
}
