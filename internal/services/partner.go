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

type PartnerService struct {
	client *client.Client
	logger *zap.Logger
}

func NewPartnerService(c *client.Client, logger *zap.Logger) *PartnerService {
	return &PartnerService{client: c, logger: logger.Named("partner_service")}
}

func (s *PartnerService) List(ctx context.Context, page int, q string) (api.ListResult[dto.PartnerDTO], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if q != "" {
		query.Set("q", q)
	}
	var result api.ListResult[dto.PartnerDTO]
	err := s.client.Get(ctx, "/channel-partners", query, &result)
	return result, err
}

func (s *PartnerService) Get(ctx context.Context, id string) (dto.PartnerDTO, error) {
	var partner dto.PartnerDTO
	err := s.client.Get(ctx, "/channel-partners/"+id, nil, &partner)
	return partner, err
}

func (s *PartnerService) Create(ctx context.Context, payload dto.CreatePartnerDTO) (dto.PartnerDTO, error) {
	var created dto.PartnerDTO
	err := s.client.Post(ctx, "/channel-partners", payload, &created)
	return created, err
}

func (s *PartnerService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/channel-partners/"+id, nil)
}
