// Package doctree holds the editable KYC document checklist of a loan
// case: sections containing document types containing file attachments.
// Removing a file never shrinks a slice. Files are soft-deleted and their
// identifiers queued for server-side deletion at the next submit, so
// indices stay stable for anything still rendering.
package doctree

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/pradhanfinservdev/pradhanportal-client/pkg/errors"
)

type FileAttachment struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Filename   string `json:"filename"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	UploadDate string `json:"uploadDate"`
	IsUploaded bool   `json:"isUploaded"`
	IsActive   bool   `json:"isActive"`
	IsDeleted  bool   `json:"isDeleted"`

	// Raw bytes of a file picked locally but not yet uploaded. Never
	// serialized as JSON; it travels as a binary multipart part instead.
	content []byte
}

// Identifier is the stable name queued for server-side deletion.
func (f FileAttachment) Identifier() string {
	if f.Filename != "" {
		return f.Filename
	}
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

type DocumentType struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Files []FileAttachment `json:"files"`
}

type Section struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Documents []DocumentType `json:"documents"`
}

// RequiredFields is the coarse completion checklist: seven top-level case
// fields, each counting equally toward the 70% base of the progress score.
type RequiredFields struct {
	LeadID           string
	CustomerName     string
	Mobile           string
	Email            string
	LeadType         string
	Amount           string
	PermanentAddress string
}

const requiredFieldCount = 7

type Tree struct {
	sections    []Section
	deleteQueue []string
	logger      *zap.Logger
}

// DefaultTemplate is the fixed KYC checklist substituted when a case has no
// usable document structure.
func DefaultTemplate() []Section {
	names := []string{
		"Photo 4 each (A & C)",
		"PAN Self attested - A & C",
		"Aadhar - self attested - A & C",
		"Address Proof (Resident & Shop/Company)",
		"Shop Act/Company Registration/Company PAN",
		"Bank statement last 12 months (CA and SA)",
		"GST/Trade/Professional Certificate",
		"Udyam Registration/Certificate",
		"ITR last 3 years (Computation / P&L / Balance Sheet)",
		"Marriage Certificate (if required)",
		"Partnership Deed (if required)",
		"MOA & AOA Company Registration",
		"Form 26AS Last 3 Years",
	}
	docs := make([]DocumentType, 0, len(names))
	for i, name := range names {
		docs = append(docs, DocumentType{
			ID:    fmt.Sprintf("doc-1-%d", i+1),
			Name:  name,
			Files: []FileAttachment{},
		})
	}
	return []Section{{ID: "section-1", Name: "KYC Documents", Documents: docs}}
}

// NewFromServer builds the editable tree from a loaded case. A structure
// with zero active files is replaced by the default template: backend
// records that lost their files keep arriving with hollow sections, and a
// hollow checklist is useless to the operator. A legitimately empty custom
// structure gets discarded too; that substitution is logged so it can be
// traced.
func NewFromServer(caseID string, sections []Section, logger *zap.Logger) *Tree {
	t := &Tree{logger: logger.Named("doctree")}
	if len(sections) == 0 || countActiveFiles(sections) == 0 {
		if len(sections) > 0 {
			t.logger.Warn("document structure has no active files, substituting default template",
				zap.String("case_id", caseID),
				zap.Int("sections_discarded", len(sections)),
			)
		}
		t.sections = DefaultTemplate()
		return t
	}
	t.sections = sections
	return t
}

// New starts from the default template (fresh cases).
func New(logger *zap.Logger) *Tree {
	return &Tree{sections: DefaultTemplate(), logger: logger.Named("doctree")}
}

func (t *Tree) Sections() []Section { return t.sections }

func (t *Tree) AddSection(name string) {
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Section %d", len(t.sections)+1)
	}
	t.sections = append(t.sections, Section{
		ID:   "section-" + uuid.NewString(),
		Name: name,
		// A section may never be empty, so it is born with one slot.
		Documents: []DocumentType{{
			ID:    "doc-" + uuid.NewString(),
			Name:  "New Document",
			Files: []FileAttachment{},
		}},
	})
}

// RemoveSection rejects the removal that would leave zero sections.
func (t *Tree) RemoveSection(sectionIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(t.sections) {
		return apperrors.NewInvalidInputError("no such section")
	}
	if len(t.sections) == 1 {
		return apperrors.NewInvalidInputError("at least one section is required")
	}
	for _, doc := range t.sections[sectionIndex].Documents {
		for _, file := range doc.Files {
			t.queueDeletion(file)
		}
	}
	t.sections = append(t.sections[:sectionIndex], t.sections[sectionIndex+1:]...)
	return nil
}

func (t *Tree) AddDocumentType(sectionIndex int, name string) error {
	if sectionIndex < 0 || sectionIndex >= len(t.sections) {
		return apperrors.NewInvalidInputError("no such section")
	}
	if strings.TrimSpace(name) == "" {
		name = "New Document"
	}
	section := &t.sections[sectionIndex]
	section.Documents = append(section.Documents, DocumentType{
		ID:    "doc-" + uuid.NewString(),
		Name:  name,
		Files: []FileAttachment{},
	})
	return nil
}

// RemoveDocumentType rejects the removal that would leave its section with
// zero document types.
func (t *Tree) RemoveDocumentType(sectionIndex, docIndex int) error {
	doc, err := t.document(sectionIndex, docIndex)
	if err != nil {
		return err
	}
	if len(t.sections[sectionIndex].Documents) == 1 {
		return apperrors.NewInvalidInputError("a section needs at least one document type")
	}
	for _, file := range doc.Files {
		t.queueDeletion(file)
	}
	docs := t.sections[sectionIndex].Documents
	t.sections[sectionIndex].Documents = append(docs[:docIndex], docs[docIndex+1:]...)
	return nil
}

func (t *Tree) RenameDocumentType(sectionIndex, docIndex int, newName string) error {
	doc, err := t.document(sectionIndex, docIndex)
	if err != nil {
		return err
	}
	if strings.TrimSpace(newName) == "" {
		return apperrors.NewInvalidInputError("document name cannot be empty")
	}
	doc.Name = newName
	return nil
}

// NewFile is a locally picked file about to be attached.
type NewFile struct {
	Name    string
	MIME    string
	Content []byte
}

// AddFiles appends attachments with IsUploaded=false; only those are
// serialized as binary parts at the next submit.
func (t *Tree) AddFiles(sectionIndex, docIndex int, files []NewFile) error {
	doc, err := t.document(sectionIndex, docIndex)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, f := range files {
		doc.Files = append(doc.Files, FileAttachment{
			ID:         "file-" + uuid.NewString(),
			Name:       f.Name,
			Filename:   f.Name,
			Type:       f.MIME,
			Size:       int64(len(f.Content)),
			UploadDate: now,
			IsUploaded: false,
			IsActive:   true,
			IsDeleted:  false,
			content:    f.Content,
		})
	}
	return nil
}

// RemoveFile soft-deletes: the entry stays in place with isDeleted set, and
// its identifier is queued for server-side deletion at the next submit.
func (t *Tree) RemoveFile(sectionIndex, docIndex, fileIndex int) error {
	doc, err := t.document(sectionIndex, docIndex)
	if err != nil {
		return err
	}
	if fileIndex < 0 || fileIndex >= len(doc.Files) {
		return apperrors.NewInvalidInputError("no such file")
	}
	file := &doc.Files[fileIndex]
	if file.IsDeleted {
		return nil
	}
	t.queueDeletion(*file)
	file.IsDeleted = true
	file.IsActive = false
	return nil
}

// VisibleFiles filters out soft-deleted entries for rendering.
func (t *Tree) VisibleFiles(sectionIndex, docIndex int) []FileAttachment {
	doc, err := t.document(sectionIndex, docIndex)
	if err != nil {
		return nil
	}
	visible := make([]FileAttachment, 0, len(doc.Files))
	for _, f := range doc.Files {
		if !f.IsDeleted {
			visible = append(visible, f)
		}
	}
	return visible
}

// ComputeTotalActiveFiles counts files that are active and not deleted,
// across the whole tree.
func (t *Tree) ComputeTotalActiveFiles() int {
	return countActiveFiles(t.sections)
}

// ComputeProgress scores completion: 70% spread evenly across the required
// field checklist plus a flat 30% once any active file exists anywhere.
func (t *Tree) ComputeProgress(fields RequiredFields) int {
	values := []string{
		fields.LeadID,
		fields.CustomerName,
		fields.Mobile,
		fields.Email,
		fields.LeadType,
		fields.Amount,
		fields.PermanentAddress,
	}
	filled := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			filled++
		}
	}
	base := int(math.Round(float64(filled) / float64(requiredFieldCount) * 70))
	if t.ComputeTotalActiveFiles() > 0 {
		return base + 30
	}
	return base
}

// DeletionQueue returns the identifiers to be deleted server-side at the
// next submit.
func (t *Tree) DeletionQueue() []string {
	return append([]string(nil), t.deleteQueue...)
}

// ClearDeletionQueue runs after a successful submit; the server has
// processed the list.
func (t *Tree) ClearDeletionQueue() {
	t.deleteQueue = nil
}

// MarkUploaded flips every pending file to uploaded and drops its local
// bytes. Called after a successful submit when the server did not echo a
// fresh structure back.
func (t *Tree) MarkUploaded() {
	for si := range t.sections {
		for di := range t.sections[si].Documents {
			files := t.sections[si].Documents[di].Files
			for fi := range files {
				if !files[fi].IsUploaded && !files[fi].IsDeleted {
					files[fi].IsUploaded = true
					files[fi].content = nil
				}
			}
		}
	}
}

func (t *Tree) queueDeletion(file FileAttachment) {
	id := file.Identifier()
	for _, queued := range t.deleteQueue {
		if queued == id {
			return
		}
	}
	t.deleteQueue = append(t.deleteQueue, id)
}

func (t *Tree) document(sectionIndex, docIndex int) (*DocumentType, error) {
	if sectionIndex < 0 || sectionIndex >= len(t.sections) {
		return nil, apperrors.NewInvalidInputError("no such section")
	}
	if docIndex < 0 || docIndex >= len(t.sections[sectionIndex].Documents) {
		return nil, apperrors.NewInvalidInputError("no such document type")
	}
	return &t.sections[sectionIndex].Documents[docIndex], nil
}

func countActiveFiles(sections []Section) int {
	total := 0
	for _, section := range sections {
		for _, doc := range section.Documents {
			for _, f := range doc.Files {
				if !f.IsDeleted && f.IsActive {
					total++
				}
			}
		}
	}
	return total
}
