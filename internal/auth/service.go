package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/internal/users"
	pkgAuth "github.com/buynowhq/buynow-backend/pkg/auth"
	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/db"
	"github.com/buynowhq/buynow-backend/pkg/db/models"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/mailer"
	"github.com/buynowhq/buynow-backend/pkg/security"
	"github.com/buynowhq/buynow-backend/pkg/storage/gcs"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	avatarFolder              = "avatars"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) (*AuthResult, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, req UpdatePasswordRequest) (*AuthResult, error)
}

type service struct {
	users       userRepository
	uploader    gcs.Uploader
	mail        mailer.Sender
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
	resetURL    string
	now         func() time.Time
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetResetToken(ctx context.Context, id uuid.UUID, digest *string, expire *time.Time) error
	FindByResetDigest(ctx context.Context, digest string, now time.Time) (*models.User, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Uploader       gcs.Uploader
	Mailer         mailer.Sender
	PasswordConfig config.PasswordConfig
	JWTConfig      config.JWTConfig
	FrontendOrigin string
	Now            func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Uploader == nil {
		return nil, fmt.Errorf("asset uploader is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if params.FrontendOrigin == "" {
		return nil, fmt.Errorf("frontend origin is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:       params.UserRepo,
		uploader:    params.Uploader,
		mail:        params.Mailer,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
		resetURL:    strings.TrimRight(params.FrontendOrigin, "/") + "/password/reset/",
		now:         now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	dto := users.CreateUserDTO{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
	}

	if req.Avatar != nil {
		upload, err := gcs.ParseDataURL(*req.Avatar)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		publicID, url, err := s.uploader.Upload(ctx, avatarFolder, upload.Filename, upload.ContentType, bytes.NewReader(upload.Data))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload avatar")
		}
		dto.AvatarPublicID, dto.AvatarURL = &publicID, &url
	}

	user, err := s.users.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.startSession(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.startSession(user)
}

// ForgotPassword issues a single-use reset token and mails its link. A
// delivery failure rolls the token back so the account holds no dangling
// reset state.
func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}

	token, digest, err := security.NewResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	expire := s.now().Add(s.passwordCfg.ResetTokenTTL())
	if err := s.users.SetResetToken(ctx, user.ID, &digest, &expire); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	subject, text := mailer.PasswordResetMessage(s.resetURL + token)
	if err := s.mail.Send(ctx, user.Email, subject, text, ""); err != nil {
		_ = s.users.SetResetToken(ctx, user.ID, nil, nil)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send reset email")
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) (*AuthResult, error) {
	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password does not match confirmation")
	}

	digest := security.HashResetToken(token)
	user, err := s.users.FindByResetDigest(ctx, digest, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reset password token is invalid or has expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find reset token")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}

	return s.startSession(user)
}

func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, req UpdatePasswordRequest) (*AuthResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}

	ok, err := security.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "old password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}

	return s.startSession(user)
}

// authenticate resolves credentials to a user without leaking which half of
// the pair was wrong.
func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) startSession(user *models.User) (*AuthResult, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResult{User: users.FromModel(user), Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
