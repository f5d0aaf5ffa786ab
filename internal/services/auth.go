package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/client"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/session"
)

// AuthService wraps the auth endpoints. Login stores the session; nothing
// else here touches it.
type AuthService struct {
	client  *client.Client
	session *session.Store
	logger  *zap.Logger
}

func NewAuthService(c *client.Client, sess *session.Store, logger *zap.Logger) *AuthService {
	return &AuthService{client: c, session: sess, logger: logger.Named("auth_service")}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (dto.LoginResultDTO, error) {
	var result dto.LoginResultDTO
	err := s.client.Post(ctx, "/auth/login", dto.LoginDTO{Email: email, Password: password}, &result)
	if err != nil {
		return dto.LoginResultDTO{}, err
	}
	s.session.Set(result.Token, result.User)
	return result, nil
}

func (s *AuthService) Logout() {
	s.session.Clear()
}

func (s *AuthService) RequestOTP(ctx context.Context, purpose string) error {
	return s.client.Post(ctx, "/auth/request-otp", dto.RequestOTPDTO{Purpose: purpose}, nil)
}

func (s *AuthService) Signup(ctx context.Context, payload dto.SignupDTO) error {
	return s.client.Post(ctx, "/auth/signup", payload, nil)
}

func (s *AuthService) ForgotPasswordRequest(ctx context.Context, email string) error {
	return s.client.Post(ctx, "/auth/forgot-password/request-otp", dto.ForgotPasswordRequestDTO{Email: email}, nil)
}

func (s *AuthService) ForgotPasswordVerify(ctx context.Context, payload dto.ForgotPasswordVerifyDTO) error {
	return s.client.Post(ctx, "/auth/forgot-password/verify", payload, nil)
}
