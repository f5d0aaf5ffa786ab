package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// SubmitForm is the assembled multipart payload for a case save: scalar
// case fields, the serialized tree, the deletion queue and one binary part
// per not-yet-uploaded file.
type SubmitForm struct {
	ContentType string
	Body        io.Reader
	// NewFileCount is how many binary parts the form carries.
	NewFileCount int
}

// BuildSubmitForm serializes the complete structure. Deleted and
// already-uploaded files contribute no binary part; they are represented
// only inside the documentSections JSON (and the deletion queue).
func (t *Tree) BuildSubmitForm(fields map[string]string) (SubmitForm, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return SubmitForm{}, fmt.Errorf("could not write form field %q: %w", key, err)
		}
	}

	sectionsJSON, err := json.Marshal(t.sections)
	if err != nil {
		return SubmitForm{}, fmt.Errorf("could not serialize document sections: %w", err)
	}
	if err := w.WriteField("documentSections", string(sectionsJSON)); err != nil {
		return SubmitForm{}, fmt.Errorf("could not write document sections: %w", err)
	}

	if len(t.deleteQueue) > 0 {
		queueJSON, err := json.Marshal(t.deleteQueue)
		if err != nil {
			return SubmitForm{}, fmt.Errorf("could not serialize deletion queue: %w", err)
		}
		if err := w.WriteField("filesToDelete", string(queueJSON)); err != nil {
			return SubmitForm{}, fmt.Errorf("could not write deletion queue: %w", err)
		}
	}

	newFiles := 0
	for si, section := range t.sections {
		for di, doc := range section.Documents {
			for _, file := range doc.Files {
				if file.IsUploaded || file.IsDeleted || file.content == nil {
					continue
				}
				part, err := w.CreateFormFile("documents", file.Filename)
				if err != nil {
					return SubmitForm{}, fmt.Errorf("could not add file part %q: %w", file.Filename, err)
				}
				if _, err := part.Write(file.content); err != nil {
					return SubmitForm{}, fmt.Errorf("could not write file part %q: %w", file.Filename, err)
				}
				if err := w.WriteField("documents_sectionIndex", strconv.Itoa(si)); err != nil {
					return SubmitForm{}, err
				}
				if err := w.WriteField("documents_docIndex", strconv.Itoa(di)); err != nil {
					return SubmitForm{}, err
				}
				if err := w.WriteField("documents_docId", doc.ID); err != nil {
					return SubmitForm{}, err
				}
				newFiles++
			}
		}
	}

	if err := w.Close(); err != nil {
		return SubmitForm{}, fmt.Errorf("could not finish form: %w", err)
	}
	return SubmitForm{
		ContentType:  w.FormDataContentType(),
		Body:         &buf,
		NewFileCount: newFiles,
	}, nil
}
