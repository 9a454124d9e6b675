package dto

import "yamdb/internal/microservices/http-api/models"

// UserResponse never exposes flags or internal ids.
type UserResponse struct {
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Username  *string     `json:"username"`
	Bio       *string     `json:"bio"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
}

// CreateUserRequest for POST /users
type CreateUserRequest struct {
	Username  string      `json:"username" binding:"required,username"`
	Email     string      `json:"email" binding:"required,email,max=254"`
	FirstName string      `json:"first_name" binding:"max=50"`
	LastName  string      `json:"last_name" binding:"max=50"`
	Bio       *string     `json:"bio"`
	Role      models.Role `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserRequest for PATCH /users/:username and /users/me; nil fields are left alone
type UpdateUserRequest struct {
	Username  *string      `json:"username" binding:"omitempty,username"`
	Email     *string      `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string      `json:"first_name" binding:"omitempty,max=50"`
	LastName  *string      `json:"last_name" binding:"omitempty,max=50"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Bio:       u.Bio,
		Email:     u.Email,
		Role:      u.Role,
	}
}
