package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewPaginated(responses, total, page, pageSize), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Create(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if !actor.Authenticated {
		return nil, permissions.Denial(actor)
	}
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.Get(ctx, titleID, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.getComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModifyContent(actor, comment.AuthorID) {
		return nil, permissions.Denial(actor)
	}

	comment.Text = req.Text
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}

	return s.Get(ctx, titleID, reviewID, commentID)
}

func (s *commentService) Delete(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64) error {
	comment, err := s.getComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !permissions.CanModifyContent(actor, comment.AuthorID) {
		return permissions.Denial(actor)
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

// resolveReview checks the review exists under the claimed title; a review id
// that lives under a different title resolves to not found.
func (s *commentService) resolveReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByIDAndTitle(ctx, reviewID, titleID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) getComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByIDAndReview(ctx, commentID, reviewID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}
