package services

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/client"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/doctree"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
)

type CaseService struct {
	client *client.Client
	logger *zap.Logger
}

func NewCaseService(c *client.Client, logger *zap.Logger) *CaseService {
	return &CaseService{client: c, logger: logger.Named("case_service")}
}

func (s *CaseService) List(ctx context.Context, page int, q, assignedTo, task string) (api.ListResult[dto.CaseDTO], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if q != "" {
		query.Set("q", q)
	}
	if assignedTo != "" {
		query.Set("assignedTo", assignedTo)
	}
	if task != "" {
		query.Set("task", task)
	}
	var result api.ListResult[dto.CaseDTO]
	err := s.client.Get(ctx, "/cases", query, &result)
	return result, err
}

// CaseDetailDTO is the full record the edit form binds to: scalar fields
// plus the KYC document tree.
type CaseDetailDTO struct {
	dto.CaseDTO
	DocumentSections []doctree.Section `json:"documentSections"`
}

func (s *CaseService) Get(ctx context.Context, id string, public bool) (CaseDetailDTO, error) {
	path := "/cases/" + id
	if public {
		path += "/public"
	}
	var detail CaseDetailDTO
	err := s.client.Get(ctx, path, nil, &detail)
	return detail, err
}

func (s *CaseService) Update(ctx context.Context, id string, payload dto.UpdateCaseDTO) error {
	return s.client.Put(ctx, "/cases/"+id, payload, nil)
}

func (s *CaseService) Comment(ctx context.Context, id, comment string) error {
	return s.client.Post(ctx, "/cases/"+id+"/comment", dto.CaseCommentDTO{Comment: comment}, nil)
}

func (s *CaseService) Audit(ctx context.Context, id string) ([]dto.CaseAuditEntryDTO, error) {
	var entries []dto.CaseAuditEntryDTO
	err := s.client.Get(ctx, "/cases/"+id+"/audit", nil, &entries)
	return entries, err
}

// Submit sends the full form: scalar fields, the serialized document tree,
// the deletion queue and one binary part per new file.
func (s *CaseService) Submit(ctx context.Context, id string, form doctree.SubmitForm, public bool) (CaseDetailDTO, error) {
	path := "/cases/" + id
	if public {
		path += "/public"
	}
	var updated CaseDetailDTO
	err := s.client.PutMultipart(ctx, path, form.ContentType, form.Body, &updated)
	return updated, err
}

// DownloadDocuments streams the case's document archive into w.
func (s *CaseService) DownloadDocuments(ctx context.Context, id string, w io.Writer, progress func(written, total int64)) error {
	return s.client.Download(ctx, "/cases/"+id+"/documents/archive", w, progress)
}
