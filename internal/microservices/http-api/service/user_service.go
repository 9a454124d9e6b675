package service

import (
	"context"
	"errors"
	"strings"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Page[dto.UserResponse], error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	Me(ctx context.Context, user *models.User) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.Page[dto.UserResponse], error) {
	users, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}
	results := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPage(results, total, page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	user := &models.User{
		Username:  &username,
		Email:     normalizeEmail(req.Email),
		Role:      req.Role,
		Bio:       req.Bio,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := s.checkUnique(ctx, user); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.uniqueError(err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// Update is the admin edit; it may change the role.
func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, req, true)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.find(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("user")
		}
		return err
	}
	return nil
}

func (s *userService) Me(ctx context.Context, user *models.User) (*dto.UserResponse, error) {
	fresh, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	resp := dto.FromModelToUserResponse(fresh)
	return &resp, nil
}

// UpdateMe edits the caller's own profile. Role is read-only here and ignored.
func (s *userService) UpdateMe(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	fresh, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return s.apply(ctx, fresh, req, false)
}

func (s *userService) find(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("user")
	}
	return user, err
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserRequest, allowRole bool) (*dto.UserResponse, error) {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, fieldError("username", "this field may not be blank")
		}
		user.Username = &username
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if allowRole && req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.checkUnique(ctx, user); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.uniqueError(err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// checkUnique reports taken usernames and emails as field errors.
func (s *userService) checkUnique(ctx context.Context, user *models.User) error {
	fields := map[string]string{}
	if user.Username != nil {
		other, err := s.repo.FindByUsername(ctx, *user.Username)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if other != nil && other.ID != user.ID {
			fields["username"] = "a user with that username already exists"
		}
	}
	other, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if other != nil && other.ID != user.ID {
		fields["email"] = "a user with that email already exists"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// uniqueError covers the race where a duplicate slips past checkUnique.
func (s *userService) uniqueError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fieldError(NonFieldErrors, "username or email already in use")
	}
	return err
}
