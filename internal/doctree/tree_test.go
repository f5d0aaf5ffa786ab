package doctree

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	return New(zap.NewNop())
}

func allFieldsFilled() RequiredFields {
	return RequiredFields{
		LeadID:           "LD-1001",
		CustomerName:     "Ramesh Kulkarni",
		Mobile:           "9822012345",
		Email:            "ramesh@example.com",
		LeadType:         "Home Loan",
		Amount:           "2500000",
		PermanentAddress: "Pune",
	}
}

func TestNewFromServer_SubstitutesTemplateWhenNoActiveFiles(t *testing.T) {
	loaded := []Section{{
		ID:   "s1",
		Name: "Custom",
		Documents: []DocumentType{{
			ID: "d1", Name: "Something", Files: []FileAttachment{},
		}},
	}}

	tree := NewFromServer("case-1", loaded, zap.NewNop())
	require.Len(t, tree.Sections(), 1)
	assert.Equal(t, "KYC Documents", tree.Sections()[0].Name)
	assert.Len(t, tree.Sections()[0].Documents, 13)
}

func TestNewFromServer_KeepsStructureWithActiveFiles(t *testing.T) {
	loaded := []Section{{
		ID:   "s1",
		Name: "Custom",
		Documents: []DocumentType{{
			ID:   "d1",
			Name: "Something",
			Files: []FileAttachment{
				{ID: "f1", Filename: "pan.pdf", IsUploaded: true, IsActive: true},
			},
		}},
	}}

	tree := NewFromServer("case-1", loaded, zap.NewNop())
	require.Len(t, tree.Sections(), 1)
	assert.Equal(t, "Custom", tree.Sections()[0].Name)
	assert.Equal(t, 1, tree.ComputeTotalActiveFiles())
}

func TestRemoveSection_RejectsLastSection(t *testing.T) {
	tree := newTestTree(t)
	require.Len(t, tree.Sections(), 1)

	err := tree.RemoveSection(0)
	assert.Error(t, err)
	assert.Len(t, tree.Sections(), 1, "tree must be unchanged after a rejected removal")
}

func TestRemoveDocumentType_RejectsLastInSection(t *testing.T) {
	tree := newTestTree(t)
	tree.AddSection("Income Proof")
	// The new section is born with exactly one document type.
	err := tree.RemoveDocumentType(1, 0)
	assert.Error(t, err)
	assert.Len(t, tree.Sections()[1].Documents, 1)

	require.NoError(t, tree.AddDocumentType(1, "Salary Slip"))
	assert.NoError(t, tree.RemoveDocumentType(1, 0))
	assert.Len(t, tree.Sections()[1].Documents, 1)
}

func TestRemoveFile_SoftDeleteAndQueue(t *testing.T) {
	tree := newTestTree(t)
	// An uploaded file, as it comes back from the server.
	tree.sections[0].Documents[0].Files = []FileAttachment{
		{ID: "f1", Name: "pan.pdf", Filename: "pan.pdf", IsUploaded: true, IsActive: true},
	}

	require.NoError(t, tree.RemoveFile(0, 0, 0))

	// The entry stays in place so indices remain valid.
	require.Len(t, tree.sections[0].Documents[0].Files, 1)
	file := tree.sections[0].Documents[0].Files[0]
	assert.True(t, file.IsDeleted)
	assert.False(t, file.IsActive)

	assert.Equal(t, 0, tree.ComputeTotalActiveFiles())
	assert.Empty(t, tree.VisibleFiles(0, 0))
	assert.Equal(t, []string{"pan.pdf"}, tree.DeletionQueue())

	// Removing again must not duplicate the queue entry.
	require.NoError(t, tree.RemoveFile(0, 0, 0))
	assert.Equal(t, []string{"pan.pdf"}, tree.DeletionQueue())
}

func TestRemoveFile_LocalFileQueuedAndNotSubmitted(t *testing.T) {
	tree := newTestTree(t)
	require.NoError(t, tree.AddFiles(0, 0, []NewFile{{Name: "photo.jpg", MIME: "image/jpeg", Content: []byte("x")}}))
	require.NoError(t, tree.RemoveFile(0, 0, 0))

	assert.Equal(t, []string{"photo.jpg"}, tree.DeletionQueue(),
		"every removal queues its identifier, uploaded or not")

	// The removed file must not travel as a binary part either.
	form, err := tree.BuildSubmitForm(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, form.NewFileCount)
}

func TestComputeProgress(t *testing.T) {
	tree := newTestTree(t)

	assert.Equal(t, 0, tree.ComputeProgress(RequiredFields{}))
	assert.Equal(t, 70, tree.ComputeProgress(allFieldsFilled()),
		"all seven fields and no files is exactly 70")

	require.NoError(t, tree.AddFiles(0, 0, []NewFile{{Name: "pan.pdf", MIME: "application/pdf", Content: []byte("x")}}))
	assert.Equal(t, 100, tree.ComputeProgress(allFieldsFilled()))

	partial := allFieldsFilled()
	partial.Email = ""
	partial.Amount = "  "
	// 5 of 7 filled: round(5/7*70) = 50, plus the file bonus.
	assert.Equal(t, 80, tree.ComputeProgress(partial))
}

func TestBuildSubmitForm(t *testing.T) {
	tree := newTestTree(t)
	tree.sections[0].Documents[0].Files = []FileAttachment{
		{ID: "f0", Name: "old.pdf", Filename: "old.pdf", IsUploaded: true, IsActive: true},
	}
	require.NoError(t, tree.AddFiles(0, 1, []NewFile{
		{Name: "aadhaar-front.jpg", MIME: "image/jpeg", Content: []byte("front")},
		{Name: "aadhaar-back.jpg", MIME: "image/jpeg", Content: []byte("back")},
	}))
	require.NoError(t, tree.RemoveFile(0, 0, 0))

	form, err := tree.BuildSubmitForm(map[string]string{"customerName": "Ramesh Kulkarni"})
	require.NoError(t, err)
	assert.Equal(t, 2, form.NewFileCount)

	_, params, err := mime.ParseMediaType(form.ContentType)
	require.NoError(t, err)
	reader := multipart.NewReader(form.Body, params["boundary"])

	var fileParts, deleteQueues int
	var deleteQueueBody string
	sawSections := false
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch part.FormName() {
		case "documents":
			fileParts++
		case "filesToDelete":
			deleteQueues++
			raw, _ := io.ReadAll(part)
			deleteQueueBody = string(raw)
		case "documentSections":
			sawSections = true
		}
	}

	assert.Equal(t, 2, fileParts, "exactly one binary part per new file")
	assert.Equal(t, 1, deleteQueues)
	assert.True(t, sawSections)
	assert.Equal(t, 1, strings.Count(deleteQueueBody, "old.pdf"),
		"the deleted identifier appears exactly once")
}
