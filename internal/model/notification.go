package model

import "time"

type NotificationType string

const (
	NotificationRequestReceived  NotificationType = "match_request_received"
	NotificationRequestAccepted  NotificationType = "match_request_accepted"
	NotificationRequestRejected  NotificationType = "match_request_rejected"
	NotificationRequestCancelled NotificationType = "match_request_cancelled"
)

type Notification struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	UserID         uint             `gorm:"not null;index" json:"user_id"`
	Type           NotificationType `gorm:"size:50;not null" json:"type"`
	Message        string           `gorm:"type:text;not null" json:"message"`
	MatchRequestID uint             `gorm:"index" json:"match_request_id"`
	IsRead         bool             `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
}
