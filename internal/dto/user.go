package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
)

// UserDTO is the public projection of a user. It never carries the password hash.
type UserDTO struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	Role        int        `json:"role"`
	Avatar      string     `json:"avatar,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginUserDTO is the user embedded in a login response
type LoginUserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     int    `json:"role"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  LoginUserDTO `json:"user"`
}

// MemberDTO is the profile shown for team members and search hits
type MemberDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   int    `json:"role"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Role:        user.Role,
		Avatar:      user.Avatar,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserDTOs converts a list of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, user := range users {
		out[i] = ToUserDTO(user)
	}
	return out
}

// ToLoginResponse builds the login body
func ToLoginResponse(token string, user models.User) LoginResponse {
	return LoginResponse{
		Token: token,
		User: LoginUserDTO{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			Role:     user.Role,
		},
	}
}

// ToMemberDTOs converts users to member profiles
func ToMemberDTOs(users []models.User) []MemberDTO {
	out := make([]MemberDTO, len(users))
	for i, user := range users {
		out[i] = MemberDTO{
			ID:     user.ID,
			Name:   user.Username,
			Email:  user.Email,
			Avatar: user.Avatar,
			Role:   user.Role,
		}
	}
	return out
}
