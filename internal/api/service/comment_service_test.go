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

func storedReview() *models.Review {
	return &models.Review{ID: 7, TitleID: 10, AuthorID: "u-1"}
}

func TestCreateComment_ReviewUnderWrongTitle(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	// Review 7 belongs to title 10; the request claims title 11.
	reviewRepo.On("GetByIDAndTitle", mock.Anything, int64(7), int64(11)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), authorActor("u-2"), 11, 7, dto.CreateCommentRequest{Text: "nice take"})

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_Anonymous(t *testing.T) {
	svc := NewCommentService(new(MockCommentRepository), new(MockReviewRepository))

	_, err := svc.Create(context.Background(), permissions.Anonymous(), 10, 7, dto.CreateCommentRequest{Text: "nice take"})

	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestCreateComment_Success(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByIDAndTitle", mock.Anything, int64(7), int64(10)).Return(storedReview(), nil)
	commentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Comment).ID = 3
		}).Return(nil)
	commentRepo.On("GetByIDAndReview", mock.Anything, int64(3), int64(7)).Return(&models.Comment{
		ID:       3,
		ReviewID: 7,
		AuthorID: "u-2",
		Text:     "nice take",
		Author:   models.User{Username: "commenter"},
	}, nil)

	comment, err := svc.Create(context.Background(), authorActor("u-2"), 10, 7, dto.CreateCommentRequest{Text: "nice take"})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), comment.ID)
	assert.Equal(t, "commenter", comment.Author)
	commentRepo.AssertExpectations(t)
}

func TestGetComment_WrongReview(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByIDAndTitle", mock.Anything, int64(8), int64(10)).Return(&models.Review{ID: 8, TitleID: 10}, nil)
	commentRepo.On("GetByIDAndReview", mock.Anything, int64(3), int64(8)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 10, 8, 3)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateComment_NotOwner(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByIDAndTitle", mock.Anything, int64(7), int64(10)).Return(storedReview(), nil)
	commentRepo.On("GetByIDAndReview", mock.Anything, int64(3), int64(7)).Return(&models.Comment{
		ID: 3, ReviewID: 7, AuthorID: "u-2",
	}, nil)

	_, err := svc.Update(context.Background(), authorActor("u-3"), 10, 7, 3, dto.UpdateCommentRequest{Text: "edited"})

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	commentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateComment_Admin(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	stored := &models.Comment{ID: 3, ReviewID: 7, AuthorID: "u-2", Text: "original", Author: models.User{Username: "commenter"}}
	reviewRepo.On("GetByIDAndTitle", mock.Anything, int64(7), int64(10)).Return(storedReview(), nil)
	commentRepo.On("GetByIDAndReview", mock.Anything, int64(3), int64(7)).Return(stored, nil)
	commentRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)

	admin := permissions.Actor{ID: "a-1", Role: models.RoleAdmin, Authenticated: true}
	comment, err := svc.Update(context.Background(), admin, 10, 7, 3, dto.UpdateCommentRequest{Text: "edited"})

	assert.NoError(t, err)
	assert.Equal(t, "edited", comment.Text)
}

func TestDeleteComment_Owner(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByIDAndTitle", mock.Anything, int64(7), int64(10)).Return(storedReview(), nil)
	commentRepo.On("GetByIDAndReview", mock.Anything, int64(3), int64(7)).Return(&models.Comment{
		ID: 3, ReviewID: 7, AuthorID: "u-2",
	}, nil)
	commentRepo.On("Delete", mock.Anything, int64(3)).Return(nil)

	err := svc.Delete(context.Background(), authorActor("u-2"), 10, 7, 3)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestListComments_Paginated(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByIDAndTitle", mock.Anything, int64(7), int64(10)).Return(storedReview(), nil)
	commentRepo.On("ListByReview", mock.Anything, int64(7), 1, 20).Return([]models.Comment{
		{ID: 3, ReviewID: 7, Text: "first", Author: models.User{Username: "commenter"}},
	}, int64(1), nil)

	result, err := svc.ListByReview(context.Background(), 10, 7, 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "first", result.Data[0].Text)
}
