package service

import (
	"context"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"
)

type UserService interface {
	List(ctx context.Context, actor permissions.Actor, search string, page, pageSize int) (*dto.Paginated[dto.AdminUserResponse], error)
	Get(ctx context.Context, actor permissions.Actor, username string) (*dto.AdminUserResponse, error)
	Create(ctx context.Context, actor permissions.Actor, req dto.CreateUserRequest) (*dto.AdminUserResponse, error)
	Update(ctx context.Context, actor permissions.Actor, username string, req dto.UpdateUserRequest) (*dto.AdminUserResponse, error)
	Delete(ctx context.Context, actor permissions.Actor, username string) error
	Me(ctx context.Context, actor permissions.Actor) (*dto.MeResponse, error)
	UpdateMe(ctx context.Context, actor permissions.Actor, req dto.UpdateMeRequest) (*dto.MeResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, actor permissions.Actor, search string, page, pageSize int) (*dto.Paginated[dto.AdminUserResponse], error) {
	if !permissions.IsAdmin(actor) {
		return nil, permissions.Denial(actor)
	}

	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.AdminUserFromModel(&users[i]))
	}

	return dto.NewPaginated(responses, total, page, pageSize), nil
}

func (s *userService) Get(ctx context.Context, actor permissions.Actor, username string) (*dto.AdminUserResponse, error) {
	if !permissions.IsAdmin(actor) {
		return nil, permissions.Denial(actor)
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := dto.AdminUserFromModel(user)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, actor permissions.Actor, req dto.CreateUserRequest) (*dto.AdminUserResponse, error) {
	if !permissions.IsAdmin(actor) {
		return nil, permissions.Denial(actor)
	}
	if req.Username == reservedUsername {
		return nil, apperr.Validation("username", `username "me" is reserved`)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("username", "username or email is already taken")
		}
		return nil, err
	}

	resp := dto.AdminUserFromModel(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, actor permissions.Actor, username string, req dto.UpdateUserRequest) (*dto.AdminUserResponse, error) {
	if !permissions.IsAdmin(actor) {
		return nil, permissions.Denial(actor)
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, apperr.Validation("role", "unknown role")
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("email", "email is already taken")
		}
		return nil, err
	}

	resp := dto.AdminUserFromModel(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, actor permissions.Actor, username string) error {
	if !permissions.IsAdmin(actor) {
		return permissions.Denial(actor)
	}

	if err := s.userRepo.Delete(ctx, username); err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *userService) Me(ctx context.Context, actor permissions.Actor) (*dto.MeResponse, error) {
	if !actor.Authenticated {
		return nil, permissions.Denial(actor)
	}

	user, err := s.findByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	resp := dto.MeFromModel(user)
	return &resp, nil
}

// UpdateMe never touches the role field, whatever the caller's privileges.
func (s *userService) UpdateMe(ctx context.Context, actor permissions.Actor, req dto.UpdateMeRequest) (*dto.MeResponse, error) {
	if !actor.Authenticated {
		return nil, permissions.Denial(actor)
	}

	user, err := s.findByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("email", "email is already taken")
		}
		return nil, err
	}

	resp := dto.MeFromModel(user)
	return &resp, nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) findByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
