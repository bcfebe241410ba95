package response

import (
	"time"

	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

func FromAuthorizedUserView(v *queries.AuthorizedUserView) *UserResponse {
	var out UserResponse
	_ = copier.Copy(&out, v)
	return &out
}
