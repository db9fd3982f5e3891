package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/internal/users"
	pkgAuth "github.com/buynowhq/buynow-backend/pkg/auth"
	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/db/models"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/security"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User

	resetClears int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (f *fakeUserRepo) add(user *models.User) {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
}

func (f *fakeUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if _, exists := f.byEmail[dto.Email]; exists {
		return nil, fmt.Errorf(`duplicate key value violates unique constraint "idx_users_email"`)
	}
	user := dto.ToModel()
	f.add(user)
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	user, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = hash
	user.ResetPasswordToken, user.ResetPasswordExpire = nil, nil
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id uuid.UUID, digest *string, expire *time.Time) error {
	user, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if digest == nil {
		f.resetClears++
	}
	user.ResetPasswordToken, user.ResetPasswordExpire = digest, expire
	return nil
}

func (f *fakeUserRepo) FindByResetDigest(_ context.Context, digest string, now time.Time) (*models.User, error) {
	for _, user := range f.byID {
		if user.ResetPasswordToken != nil && *user.ResetPasswordToken == digest &&
			user.ResetPasswordExpire != nil && user.ResetPasswordExpire.After(now) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, folder, filename, _ string, _ io.Reader) (string, string, error) {
	path := folder + "/" + filename
	return path, "https://storage.googleapis.com/test/" + path, nil
}

func (fakeUploader) Delete(context.Context, string) error { return nil }

type fakeMailer struct {
	to, subject, text string
	err               error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, text, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.to, f.subject, f.text = to, subject, text
	return nil
}

func testServiceParams(repo *fakeUserRepo, mail *fakeMailer) ServiceParams {
	return ServiceParams{
		UserRepo:       repo,
		Uploader:       fakeUploader{},
		Mailer:         mail,
		PasswordConfig: config.PasswordConfig{},
		JWTConfig: config.JWTConfig{
			Secret:            "test-secret-0123456789abcdef",
			Issuer:            "buynow-test",
			ExpirationMinutes: 15,
		},
		FrontendOrigin: "https://buynow.shop",
	}
}

func registerUser(t *testing.T, svc Service, email, password string) *AuthResult {
	t.Helper()

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return result
}

func TestNewServiceValidatesDeps(t *testing.T) {
	params := testServiceParams(newFakeUserRepo(), &fakeMailer{})

	missingRepo := params
	missingRepo.UserRepo = nil
	_, err := NewService(missingRepo)
	require.Error(t, err)

	missingMailer := params
	missingMailer.Mailer = nil
	_, err = NewService(missingMailer)
	require.Error(t, err)

	_, err = NewService(params)
	require.NoError(t, err)
}

func TestRegisterHashesPasswordAndMintsToken(t *testing.T) {
	repo := newFakeUserRepo()
	params := testServiceParams(repo, &fakeMailer{})
	svc, err := NewService(params)
	require.NoError(t, err)

	result := registerUser(t, svc, "Ada@Example.com", "correct horse battery")

	stored := repo.byEmail["ada@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)
	ok, err := security.VerifyPassword("correct horse battery", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	claims, err := pkgAuth.ParseAccessToken(params.JWTConfig, result.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, err := NewService(testServiceParams(newFakeUserRepo(), &fakeMailer{}))
	require.NoError(t, err)

	registerUser(t, svc, "ada@example.com", "correct horse battery")

	_, err = svc.Register(context.Background(), RegisterRequest{
		Name: "Imposter", Email: "ada@example.com", Password: "another password",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, err := NewService(testServiceParams(newFakeUserRepo(), &fakeMailer{}))
	require.NoError(t, err)

	registerUser(t, svc, "ada@example.com", "correct horse battery")

	cases := []LoginRequest{
		{Email: "nobody@example.com", Password: "correct horse battery"},
		{Email: "ada@example.com", Password: "wrong password"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, invalidCredentialsMessage, typed.Message())
	}
}

func TestLoginSucceedsWithMixedCaseEmail(t *testing.T) {
	repo := newFakeUserRepo()
	params := testServiceParams(repo, &fakeMailer{})
	svc, err := NewService(params)
	require.NoError(t, err)

	registered := registerUser(t, svc, "ada@example.com", "correct horse battery")

	result, err := svc.Login(context.Background(), LoginRequest{
		Email: " Ada@Example.COM ", Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
}

func TestForgotPasswordStoresDigestAndEmailsLink(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	svc, err := NewService(testServiceParams(repo, mail))
	require.NoError(t, err)

	registerUser(t, svc, "ada@example.com", "correct horse battery")

	require.NoError(t, svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ada@example.com"}))

	assert.Equal(t, "ada@example.com", mail.to)
	require.Contains(t, mail.text, "https://buynow.shop/password/reset/")

	start := strings.Index(mail.text, "/password/reset/") + len("/password/reset/")
	token := strings.Fields(mail.text[start:])[0]

	stored := repo.byEmail["ada@example.com"]
	require.NotNil(t, stored.ResetPasswordToken)
	assert.NotEqual(t, token, *stored.ResetPasswordToken)
	assert.Equal(t, security.HashResetToken(token), *stored.ResetPasswordToken)
}

func TestForgotPasswordUnknownEmailNotFound(t *testing.T) {
	svc, err := NewService(testServiceParams(newFakeUserRepo(), &fakeMailer{}))
	require.NoError(t, err)

	err = svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "nobody@example.com"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestForgotPasswordRollsBackTokenOnMailFailure(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeMailer{err: errors.New("mailgun down")}
	svc, err := NewService(testServiceParams(repo, mail))
	require.NoError(t, err)

	registerUser(t, svc, "ada@example.com", "correct horse battery")

	err = svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ada@example.com"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())

	stored := repo.byEmail["ada@example.com"]
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
	assert.Equal(t, 1, repo.resetClears)
}

func TestResetPasswordHappyPath(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	svc, err := NewService(testServiceParams(repo, mail))
	require.NoError(t, err)

	registerUser(t, svc, "ada@example.com", "correct horse battery")
	require.NoError(t, svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ada@example.com"}))

	start := strings.Index(mail.text, "/password/reset/") + len("/password/reset/")
	token := strings.Fields(mail.text[start:])[0]

	result, err := svc.ResetPassword(context.Background(), token, ResetPasswordRequest{
		Password: "brand new password", ConfirmPassword: "brand new password",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "brand new password"})
	require.NoError(t, err)
}

func TestResetPasswordRejectsMismatchAndBadToken(t *testing.T) {
	svc, err := NewService(testServiceParams(newFakeUserRepo(), &fakeMailer{}))
	require.NoError(t, err)

	_, err = svc.ResetPassword(context.Background(), "whatever", ResetPasswordRequest{
		Password: "one password", ConfirmPassword: "another password",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.ResetPassword(context.Background(), "bogus-token", ResetPasswordRequest{
		Password: "brand new password", ConfirmPassword: "brand new password",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "invalid or has expired")
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	params := testServiceParams(repo, mail)

	current := time.Now()
	params.Now = func() time.Time { return current }
	svc, err := NewService(params)
	require.NoError(t, err)

	registerUser(t, svc, "ada@example.com", "correct horse battery")
	require.NoError(t, svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ada@example.com"}))

	start := strings.Index(mail.text, "/password/reset/") + len("/password/reset/")
	token := strings.Fields(mail.text[start:])[0]

	current = current.Add(11 * time.Minute)

	_, err = svc.ResetPassword(context.Background(), token, ResetPasswordRequest{
		Password: "brand new password", ConfirmPassword: "brand new password",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdatePasswordVerifiesOld(t *testing.T) {
	repo := newFakeUserRepo()
	svc, err := NewService(testServiceParams(repo, &fakeMailer{}))
	require.NoError(t, err)

	registered := registerUser(t, svc, "ada@example.com", "correct horse battery")

	_, err = svc.UpdatePassword(context.Background(), registered.User.ID, UpdatePasswordRequest{
		OldPassword: "wrong password", NewPassword: "brand new password",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.UpdatePassword(context.Background(), registered.User.ID, UpdatePasswordRequest{
		OldPassword: "correct horse battery", NewPassword: "brand new password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "brand new password"})
	require.NoError(t, err)
}
