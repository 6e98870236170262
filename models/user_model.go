package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"unique"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"unique"`
	Role      string `json:"role"`
	SiteID    uint   `json:"site_id"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

type LoginLog struct {
	gorm.Model
	UserID        *uint64    `json:"user_id"`
	Username      string     `json:"username"`
	IPAddress     string     `json:"ip_address"`
	UserAgent     string     `json:"user_agent"`
	LoginAt       *time.Time `json:"login_at"`
	LoginStatus   string     `json:"login_status"`
	FailureReason *string    `json:"failure_reason"`
}
