package mapper

import (
	"api/internal/api/handler/response"
	"api/internal/api/models"
)

func ToUserResponse(user models.User) response.UserResponseDTO {
	return response.UserResponseDTO{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
		IsActive: user.IsActive,
	}
}
