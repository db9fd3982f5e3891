package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/buynowhq/buynow-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string         `gorm:"column:name;not null"`
	Email               string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash        string         `gorm:"column:password_hash;not null"`
	Role                enums.UserRole `gorm:"column:role;not null;default:'user'"`
	AvatarPublicID      *string        `gorm:"column:avatar_public_id"`
	AvatarURL           *string        `gorm:"column:avatar_url"`
	ResetPasswordToken  *string        `gorm:"column:reset_password_token"`
	ResetPasswordExpire *time.Time     `gorm:"column:reset_password_expire"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
