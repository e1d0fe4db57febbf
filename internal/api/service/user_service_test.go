package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
)

func TestUserList_RequiresAdmin(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	_, err := svc.List(context.Background(), authorActor("u-1"), "", 1, 20)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Moderators manage content, not accounts.
	_, err = svc.List(context.Background(), moderatorActor(), "", 1, 20)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.List(context.Background(), permissions.Anonymous(), "", 1, 20)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestUserList_Search(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("List", mock.Anything, "rea", 1, 20).Return([]models.User{
		{ID: "u-1", Username: "reader", Email: "reader@example.com", Role: models.RoleUser},
	}, int64(1), nil)

	result, err := svc.List(context.Background(), adminActor(), "rea", 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "reader", result.Data[0].Username)
}

func TestUserCreate_ReservedUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	_, err := svc.Create(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "me", Email: "me@example.com",
	})

	assert.True(t, apperr.IsValidation(err))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserCreate_DefaultRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			assert.Equal(t, models.RoleUser, args.Get(1).(*models.User).Role)
		}).Return(nil)

	user, err := svc.Create(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "reader", Email: "reader@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Create(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "reader", Email: "reader@example.com",
	})

	assert.True(t, apperr.IsValidation(err))
}

func TestUserUpdate_RoleChange(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	stored := &models.User{ID: "u-1", Username: "reader", Email: "reader@example.com", Role: models.RoleUser}
	userRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	role := models.RoleModerator
	user, err := svc.Update(context.Background(), adminActor(), "reader", dto.UpdateUserRequest{Role: &role})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
}

func TestUserGet_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), adminActor(), "ghost")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUserDelete_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("Delete", mock.Anything, "ghost").Return(gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), adminActor(), "ghost")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMe_RequiresAuth(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	_, err := svc.Me(context.Background(), permissions.Anonymous())

	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestMe_ReturnsOwnProfile(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	stored := &models.User{ID: "u-1", Username: "reader", Email: "reader@example.com", Role: models.RoleUser}
	userRepo.On("FindByID", mock.Anything, "u-1").Return(stored, nil)

	me, err := svc.Me(context.Background(), authorActor("u-1"))

	assert.NoError(t, err)
	assert.Equal(t, "reader", me.Username)
}

func TestUpdateMe_KeepsRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	stored := &models.User{ID: "u-1", Username: "reader", Email: "reader@example.com", Role: models.RoleUser}
	userRepo.On("FindByID", mock.Anything, "u-1").Return(stored, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			assert.Equal(t, models.RoleUser, args.Get(1).(*models.User).Role)
		}).Return(nil)

	bio := "avid reader"
	me, err := svc.UpdateMe(context.Background(), authorActor("u-1"), dto.UpdateMeRequest{Bio: &bio})

	assert.NoError(t, err)
	assert.Equal(t, "avid reader", me.Bio)
	assert.Equal(t, models.RoleUser, me.Role)
}
