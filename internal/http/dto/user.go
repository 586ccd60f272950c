package dto

import (
	"altis.app/tracker/internal/model"
)

type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	OrganizationID *ID    `json:"organizationId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID             int64  `json:"id,string"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	OrganizationID int64  `json:"organizationId,string"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		OrganizationID: u.OrganizationID,
	}
}

func ToUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *ToUserResponse(&users[i])
	}
	return out
}

type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

type UserBrief struct {
	ID    int64  `json:"id,string"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToUserBrief(u *model.UserBrief) *UserBrief {
	if u == nil {
		return nil
	}
	return &UserBrief{ID: u.ID, Name: u.Name, Email: u.Email}
}
