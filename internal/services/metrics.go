package services

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/client"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
)

type MetricsService struct {
	client *client.Client
	logger *zap.Logger
}

func NewMetricsService(c *client.Client, logger *zap.Logger) *MetricsService {
	return &MetricsService{client: c, logger: logger.Named("metrics_service")}
}

func (s *MetricsService) Overview(ctx context.Context, filter dto.MetricsFilterDTO) (dto.MetricsOverviewDTO, error) {
	query := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	setIf("from", filter.From)
	setIf("to", filter.To)
	setIf("partner", filter.Partner)
	setIf("bank", filter.Bank)
	setIf("leadType", filter.LeadType)
	setIf("subType", filter.SubType)

	var overview dto.MetricsOverviewDTO
	err := s.client.Get(ctx, "/metrics/overview", query, &overview)
	return overview, err
}
