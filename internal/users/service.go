package users

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/pkg/db"
	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/storage/gcs"
)

const avatarFolder = "avatars"

// UpdateProfileRequest carries the self-service profile changes.
type UpdateProfileRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=60"`
	Email  string `json:"email" validate:"required,email"`
	Avatar *gcs.Upload
}

// UpdateAccountRequest carries the admin-managed account changes.
type UpdateAccountRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=60"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=user admin"`
}

// Service defines the behavior needed by the user controllers.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Profile(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	ListUsers(ctx context.Context) ([]UserDTO, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*UserDTO, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     userRepository
	uploader gcs.Uploader
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, publicID, url string) error
	UpdateAccount(ctx context.Context, id uuid.UUID, name, email string, role enums.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo     userRepository
	Uploader gcs.Uploader
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Uploader == nil {
		return nil, fmt.Errorf("asset uploader is required")
	}
	return &service{
		repo:     params.Repo,
		uploader: params.Uploader,
	}, nil
}

// GetByID loads the account referenced by a session token.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func (s *service) Profile(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, id, req.Name, normalizeEmail(req.Email)); err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	if req.Avatar != nil {
		if err := s.replaceAvatar(ctx, user, req.Avatar); err != nil {
			return nil, err
		}
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *FromModel(&users[i]))
	}
	return dtos, nil
}

func (s *service) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*UserDTO, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	role, err := enums.ParseUserRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if err := s.repo.UpdateAccount(ctx, id, req.Name, normalizeEmail(req.Email), role); err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update account")
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// DeleteUser removes the account and its stored avatar asset.
func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.AvatarPublicID != nil {
		if err := s.uploader.Delete(ctx, *user.AvatarPublicID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete avatar asset")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

// replaceAvatar uploads the new asset, points the row at it, then removes
// the previous asset so a failed upload never orphans the profile.
func (s *service) replaceAvatar(ctx context.Context, user *models.User, avatar *gcs.Upload) error {
	publicID, url, err := s.uploader.Upload(ctx, avatarFolder, avatar.Filename, avatar.ContentType, bytes.NewReader(avatar.Data))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload avatar")
	}

	if err := s.repo.UpdateAvatar(ctx, user.ID, publicID, url); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update avatar")
	}

	if user.AvatarPublicID != nil && *user.AvatarPublicID != publicID {
		// Best effort; a stale object is preferable to failing the request.
		_ = s.uploader.Delete(ctx, *user.AvatarPublicID)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
