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

type LeadService struct {
	client *client.Client
	logger *zap.Logger
}

func NewLeadService(c *client.Client, logger *zap.Logger) *LeadService {
	return &LeadService{client: c, logger: logger.Named("lead_service")}
}

// List fetches one page of leads. status narrows to a pool
// ("free_pool", "archived"); empty means all.
func (s *LeadService) List(ctx context.Context, page int, q, status string) (api.ListResult[dto.LeadDTO], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if q != "" {
		query.Set("q", q)
	}
	if status != "" {
		query.Set("status", status)
	}
	var result api.ListResult[dto.LeadDTO]
	err := s.client.Get(ctx, "/leads", query, &result)
	return result, err
}

func (s *LeadService) Create(ctx context.Context, payload dto.CreateLeadDTO) (dto.LeadDTO, error) {
	var created dto.LeadDTO
	err := s.client.Post(ctx, "/leads", payload, &created)
	return created, err
}

func (s *LeadService) UpdateWorkflow(ctx context.Context, id, workflowStatus string) error {
	return s.client.Patch(ctx, "/leads/"+id, dto.UpdateLeadWorkflowDTO{WorkflowStatus: workflowStatus}, nil)
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/leads/"+id, nil)
}
