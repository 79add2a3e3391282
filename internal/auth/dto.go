package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
)

// RegisterInput holds the validated registration payload.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginInput holds the validated login payload.
type LoginInput struct {
	Email    string
	Password string
}

// UserDTO is the API-facing representation of a user.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Role        enums.UserRole `json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuthResult bundles the token pair issued on register, login, or refresh.
type AuthResult struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

func toUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}
