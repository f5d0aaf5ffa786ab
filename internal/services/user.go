package services

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/client"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
)

type UserService struct {
	client *client.Client
	logger *zap.Logger
}

func NewUserService(c *client.Client, logger *zap.Logger) *UserService {
	return &UserService{client: c, logger: logger.Named("user_service")}
}

func (s *UserService) List(ctx context.Context, page int, q string) (api.ListResult[dto.UserDTO], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if q != "" {
		query.Set("q", q)
	}
	var result api.ListResult[dto.UserDTO]
	err := s.client.Get(ctx, "/users", query, &result)
	return result, err
}

// Create is OTP-gated: payload carries the owner's OTP and its purpose.
func (s *UserService) Create(ctx context.Context, payload dto.CreateUserDTO) (dto.UserDTO, error) {
	var created dto.UserDTO
	err := s.client.Post(ctx, "/users", payload, &created)
	return created, err
}

// Delete is OTP-gated the same way.
func (s *UserService) Delete(ctx context.Context, id, otp string) error {
	return s.client.Delete(ctx, "/users/"+id, dto.DeleteUserDTO{OTP: otp, Purpose: "create_user"})
}

func (s *UserService) UpdateRole(ctx context.Context, id, role string) error {
	return s.client.Patch(ctx, "/users/"+id+"/role", dto.UpdateUserRoleDTO{Role: role}, nil)
}

func (s *UserService) UpdateActive(ctx context.Context, id string, isActive bool) error {
	return s.client.Patch(ctx, "/users/"+id+"/active", dto.UpdateUserActiveDTO{IsActive: isActive}, nil)
}

func (s *UserService) UpdatePassword(ctx context.Context, id, password string) error {
	return s.client.Patch(ctx, "/users/"+id+"/password", dto.UpdateUserPasswordDTO{Password: password}, nil)
}
