package dto

import (
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// AuthResponse is returned by register and login: the user plus a fresh token
type AuthResponse struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	Token    string      `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// ToAuthResponse converts a User model and token to AuthResponse
func ToAuthResponse(user models.User, token string) AuthResponse {
	return AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	}
}
