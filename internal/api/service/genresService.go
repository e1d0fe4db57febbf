package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"
)

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.GenreResponse], error)
	Create(ctx context.Context, actor permissions.Actor, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	Delete(ctx context.Context, actor permissions.Actor, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.GenreResponse], error) {
	list, total, err := s.genreRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(list))
	for i := range list {
		responses = append(responses, dto.GenreFromModel(&list[i]))
	}

	return dto.NewPaginated(responses, total, page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, actor permissions.Actor, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	if !permissions.IsAdmin(actor) {
		return nil, permissions.Denial(actor)
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperr.Validation("slug", "slug may contain only letters, digits, hyphens and underscores")
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("slug", "slug is already taken")
		}
		return nil, err
	}

	resp := dto.GenreFromModel(genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, actor permissions.Actor, slug string) error {
	if !permissions.IsAdmin(actor) {
		return permissions.Denial(actor)
	}

	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}
