package service

import (
	"context"
	"regexp"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"
)

// slugPattern matches URL-safe slugs for categories and genres.
var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error)
	Create(ctx context.Context, actor permissions.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor permissions.Actor, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error) {
	list, total, err := s.categoryRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		responses = append(responses, dto.CategoryFromModel(&list[i]))
	}

	return dto.NewPaginated(responses, total, page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, actor permissions.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if !permissions.IsAdmin(actor) {
		return nil, permissions.Denial(actor)
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperr.Validation("slug", "slug may contain only letters, digits, hyphens and underscores")
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("slug", "slug is already taken")
		}
		return nil, err
	}

	resp := dto.CategoryFromModel(category)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, actor permissions.Actor, slug string) error {
	if !permissions.IsAdmin(actor) {
		return permissions.Denial(actor)
	}

	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}
