package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor permissions.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor permissions.Actor, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginated(responses, total, page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Create(ctx context.Context, actor permissions.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if !actor.Authenticated {
		return nil, permissions.Denial(actor)
	}
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	// One review per author per title. The unique index is the authority;
	// the exists check just gives a cleaner error on the common path.
	exists, err := s.reviewRepo.ExistsByTitleAndAuthor(ctx, titleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("title", "you have already reviewed this title")
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("title", "you have already reviewed this title")
		}
		return nil, err
	}

	return s.Get(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModifyContent(actor, review.AuthorID) {
		return nil, permissions.Denial(actor)
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if *req.Score < 1 || *req.Score > 10 {
			return nil, apperr.Validation("score", "score must be between 1 and 10")
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}

	return s.Get(ctx, titleID, reviewID)
}

func (s *reviewService) Delete(ctx context.Context, actor permissions.Actor, titleID, reviewID int64) error {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !permissions.CanModifyContent(actor, review.AuthorID) {
		return permissions.Denial(actor)
	}

	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) resolveTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) getReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByIDAndTitle(ctx, reviewID, titleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}
