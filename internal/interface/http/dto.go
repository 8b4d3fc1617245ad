package handlers

import (
	"time"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
)

type userDTO struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// userActivityDTO adds login aggregates; LastLogin is null for users who
// never logged in.
type userActivityDTO struct {
	userDTO
	LoginCount int64      `json:"login_count"`
	LastLogin  *time.Time `json:"last_login"`
}

func toUserDTO(u *entity.User) userDTO {
	return userDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toActivityDTOs(rows []entity.UserActivity) []userActivityDTO {
	out := make([]userActivityDTO, len(rows))
	for i := range rows {
		out[i] = userActivityDTO{
			userDTO:    toUserDTO(&rows[i].User),
			LoginCount: rows[i].LoginCount,
			LastLogin:  rows[i].LastLogin,
		}
	}
	return out
}
