package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	Avatar    *AvatarDTO     `json:"avatar,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AvatarDTO describes the stored avatar asset.
type AvatarDTO struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name           string
	Email          string
	PasswordHash   string
	Role           enums.UserRole
	AvatarPublicID *string
	AvatarURL      *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.AvatarPublicID != nil && u.AvatarURL != nil {
		dto.Avatar = &AvatarDTO{PublicID: *u.AvatarPublicID, URL: *u.AvatarURL}
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}

	return &models.User{
		ID:             uuid.New(),
		Name:           c.Name,
		Email:          c.Email,
		PasswordHash:   c.PasswordHash,
		Role:           role,
		AvatarPublicID: c.AvatarPublicID,
		AvatarURL:      c.AvatarURL,
	}
}
