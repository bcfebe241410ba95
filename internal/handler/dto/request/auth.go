package request

import "parkshare/internal/usecase/commands"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=renter owner"`
}

func (r RegisterRequest) ToCommand() commands.RegisterRequest {
	return commands.RegisterRequest{Email: r.Email, Password: r.Password, Role: r.Role}
}

func (r LoginRequest) ToCommand() commands.LoginRequest {
	return commands.LoginRequest{Email: r.Email, Password: r.Password}
}
