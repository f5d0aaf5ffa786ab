package dto

import "github.com/pradhanfinservdev/pradhanportal-client/internal/session"

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResultDTO struct {
	Token string          `json:"token"`
	User  session.Profile `json:"user"`
}

type RequestOTPDTO struct {
	Purpose string `json:"purpose" validate:"required,oneof=signup create_user"`
}

type SignupDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	OTP      string `json:"otp" validate:"required"`
}

type ForgotPasswordRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ForgotPasswordVerifyDTO struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
