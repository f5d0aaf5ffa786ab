package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/client"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
)

type CustomerService struct {
	client *client.Client
	logger *zap.Logger
}

func NewCustomerService(c *client.Client, logger *zap.Logger) *CustomerService {
	return &CustomerService{client: c, logger: logger.Named("customer_service")}
}

func (s *CustomerService) List(ctx context.Context, page int, q, bank, status string) (api.ListResult[dto.CustomerDTO], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if q != "" {
		query.Set("q", q)
	}
	if bank != "" {
		query.Set("bank", bank)
	}
	if status != "" {
		query.Set("status", status)
	}
	var result api.ListResult[dto.CustomerDTO]
	err := s.client.Get(ctx, "/customers", query, &result)
	return result, err
}

func (s *CustomerService) Banks(ctx context.Context) ([]string, error) {
	var banks []string
	err := s.client.Get(ctx, "/customers/meta/banks", nil, &banks)
	return banks, err
}

func (s *CustomerService) Statuses(ctx context.Context) ([]string, error) {
	var statuses []string
	err := s.client.Get(ctx, "/customers/meta/statuses", nil, &statuses)
	return statuses, err
}

func (s *CustomerService) PatchField(ctx context.Context, id string, payload dto.UpdateCustomerFieldDTO) error {
	return s.client.Patch(ctx, "/customers/"+id, payload, nil)
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/customers/"+id, nil)
}

// UploadKYC posts one labelled KYC file (PAN or AADHAAR) for a customer.
func (s *CustomerService) UploadKYC(ctx context.Context, id, label, filename string, content []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("could not build upload form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("could not write upload form: %w", err)
	}
	if err := w.WriteField("label", label); err != nil {
		return fmt.Errorf("could not write upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("could not finish upload form: %w", err)
	}
	return s.client.PostMultipart(ctx, "/customers/"+id+"/kyc/upload", w.FormDataContentType(), &buf, nil)
}
