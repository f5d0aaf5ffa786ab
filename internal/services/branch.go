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

type BranchService struct {
	client *client.Client
	logger *zap.Logger
}

func NewBranchService(c *client.Client, logger *zap.Logger) *BranchService {
	return &BranchService{client: c, logger: logger.Named("branch_service")}
}

func (s *BranchService) List(ctx context.Context, page int, q string) (api.ListResult[dto.BranchDTO], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if q != "" {
		query.Set("q", q)
	}
	var result api.ListResult[dto.BranchDTO]
	err := s.client.Get(ctx, "/branches", query, &result)
	return result, err
}

func (s *BranchService) Get(ctx context.Context, id string) (dto.BranchDTO, error) {
	var branch dto.BranchDTO
	err := s.client.Get(ctx, "/branches/"+id, nil, &branch)
	return branch, err
}

func (s *BranchService) Create(ctx context.Context, payload dto.CreateBranchDTO) (dto.BranchDTO, error) {
	var created dto.BranchDTO
	err := s.client.Post(ctx, "/branches", payload, &created)
	return created, err
}

func (s *BranchService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/branches/"+id, nil)
}
