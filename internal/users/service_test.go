package users

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/storage/gcs"
)

type stubUserRepo struct {
	users map[uuid.UUID]*models.User

	updateProfileErr error
	deletedIDs       []uuid.UUID
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) List(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, name, email string) error {
	if s.updateProfileErr != nil {
		return s.updateProfileErr
	}
	if u, ok := s.users[id]; ok {
		u.Name, u.Email = name, email
	}
	return nil
}

func (s *stubUserRepo) UpdateAvatar(_ context.Context, id uuid.UUID, publicID, url string) error {
	if u, ok := s.users[id]; ok {
		u.AvatarPublicID, u.AvatarURL = &publicID, &url
	}
	return nil
}

func (s *stubUserRepo) UpdateAccount(_ context.Context, id uuid.UUID, name, email string, role enums.UserRole) error {
	if u, ok := s.users[id]; ok {
		u.Name, u.Email, u.Role = name, email, role
	}
	return nil
}

func (s *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.users, id)
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

type stubUploader struct {
	uploaded []string
	deleted  []string
	err      error
}

func (s *stubUploader) Upload(_ context.Context, folder, filename, _ string, _ io.Reader) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	path := folder + "/" + filename
	s.uploaded = append(s.uploaded, path)
	return path, "https://storage.googleapis.com/test/" + path, nil
}

func (s *stubUploader) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}

func testUser(role enums.UserRole) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "argon2id$hash",
		Role:         role,
		CreatedAt:    time.Now(),
	}
}

func TestNewServiceValidatesDeps(t *testing.T) {
	_, err := NewService(ServiceParams{Uploader: &stubUploader{}})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Repo: newStubUserRepo()})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Repo: newStubUserRepo(), Uploader: &stubUploader{}})
	require.NoError(t, err)
}

func TestGetByIDMapsNotFound(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: newStubUserRepo(), Uploader: &stubUploader{}})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestProfileOmitsCredentials(t *testing.T) {
	user := testUser(enums.UserRoleUser)
	svc, err := NewService(ServiceParams{Repo: newStubUserRepo(user), Uploader: &stubUploader{}})
	require.NoError(t, err)

	dto, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, dto.Email)
	assert.Nil(t, dto.Avatar)
}

func TestUpdateProfileUploadsAvatarAndRemovesOld(t *testing.T) {
	user := testUser(enums.UserRoleUser)
	old := "avatars/old-photo.png"
	oldURL := "https://storage.googleapis.com/test/" + old
	user.AvatarPublicID, user.AvatarURL = &old, &oldURL

	repo := newStubUserRepo(user)
	uploader := &stubUploader{}
	svc, err := NewService(ServiceParams{Repo: repo, Uploader: uploader})
	require.NoError(t, err)

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:   "Ada L.",
		Email:  "Ada.New@Example.com",
		Avatar: &gcs.Upload{Filename: "new.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "ada.new@example.com", dto.Email)
	require.NotNil(t, dto.Avatar)
	assert.Equal(t, "avatars/new.png", dto.Avatar.PublicID)
	assert.Equal(t, []string{old}, uploader.deleted)
}

func TestUpdateAccountRejectsUnknownRole(t *testing.T) {
	user := testUser(enums.UserRoleUser)
	svc, err := NewService(ServiceParams{Repo: newStubUserRepo(user), Uploader: &stubUploader{}})
	require.NoError(t, err)

	_, err = svc.UpdateAccount(context.Background(), user.ID, UpdateAccountRequest{
		Name: "Ada", Email: "ada@example.com", Role: "superuser",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateAccountPromotesToAdmin(t *testing.T) {
	user := testUser(enums.UserRoleUser)
	svc, err := NewService(ServiceParams{Repo: newStubUserRepo(user), Uploader: &stubUploader{}})
	require.NoError(t, err)

	dto, err := svc.UpdateAccount(context.Background(), user.ID, UpdateAccountRequest{
		Name: "Ada", Email: "ada@example.com", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, dto.Role)
}

func TestDeleteUserRemovesAvatarAsset(t *testing.T) {
	user := testUser(enums.UserRoleUser)
	old := "avatars/old-photo.png"
	user.AvatarPublicID = &old

	repo := newStubUserRepo(user)
	uploader := &stubUploader{}
	svc, err := NewService(ServiceParams{Repo: repo, Uploader: uploader})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))
	assert.Equal(t, []string{old}, uploader.deleted)
	assert.Equal(t, []uuid.UUID{user.ID}, repo.deletedIDs)
}
