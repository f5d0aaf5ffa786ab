package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/doctree"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/services"
)

var caseStatusCycle = []string{"in-progress", "pending-documents", "approved", "rejected", "disbursed"}

type caseDetailMsg struct {
	detail services.CaseDetailDTO
	err    error
}

type caseSubmitDoneMsg struct {
	detail services.CaseDetailDTO
	err    error
}

type caseAuditMsg struct {
	entries []dto.CaseAuditEntryDTO
	err     error
}

type caseFormMode int

const (
	caseBrowsing caseFormMode = iota
	caseEditingFields
	caseEnteringPath
	caseRenamingDoc
	caseCommenting
	caseViewingAudit
)

// caseFormModel is the KYC document form. The same model serves the
// operator view and the link shared with the applicant: public mode routes
// to the public endpoints and hides status, comments, audit and download.
type caseFormModel struct {
	deps   pageDeps
	public bool

	caseID  string
	detail  services.CaseDetailDTO
	tree    *doctree.Tree
	loading bool
	alert   string

	mode       caseFormMode
	fields     form
	input      textinput.Model
	sectionIdx int
	docIdx     int
	fileIdx    int

	audit       []dto.CaseAuditEntryDTO
	downloading bool
}

func newCaseFormModel(deps pageDeps, public bool) caseFormModel {
	input := textinput.New()
	input.Prompt = "> "
	return caseFormModel{
		deps:   deps,
		public: public,
		input:  input,
		fields: newForm(
			formField{Label: "Customer name"},
			formField{Label: "Mobile"},
			formField{Label: "Email"},
			formField{Label: "Lead type"},
			formField{Label: "Amount"},
			formField{Label: "Permanent address"},
			formField{Label: "Notes"},
		),
	}
}

func (m *caseFormModel) openCmd(caseID string) tea.Cmd {
	m.caseID = caseID
	m.loading = true
	m.alert = ""
	m.mode = caseBrowsing
	m.sectionIdx, m.docIdx, m.fileIdx = 0, 0, 0
	svc, public := m.deps.svc.Cases, m.public
	return func() tea.Msg {
		detail, err := svc.Get(context.Background(), caseID, public)
		return caseDetailMsg{detail: detail, err: err}
	}
}

func (m *caseFormModel) setDetail(detail services.CaseDetailDTO) {
	m.detail = detail
	m.tree = doctree.NewFromServer(detail.ID, detail.DocumentSections, m.deps.logger)
	m.seedFields()
}

func (m *caseFormModel) seedFields() {
	set := func(label, value string) {
		for i := range m.fields.fields {
			if m.fields.fields[i].Label == label {
				m.fields.fields[i].input.SetValue(value)
			}
		}
	}
	set("Customer name", m.detail.CustomerName)
	set("Mobile", m.detail.Mobile)
	set("Email", m.detail.Email)
	set("Lead type", m.detail.LeadType)
	if m.detail.Amount.Valid {
		set("Amount", fmt.Sprintf("%.0f", m.detail.Amount.Float64))
	}
	set("Permanent address", m.detail.PermanentAddress)
	set("Notes", m.detail.Notes)
}

func (m caseFormModel) requiredFields() doctree.RequiredFields {
	return doctree.RequiredFields{
		LeadID:           m.detail.LeadID,
		CustomerName:     m.fields.Value("Customer name"),
		Mobile:           m.fields.Value("Mobile"),
		Email:            m.fields.Value("Email"),
		LeadType:         m.fields.Value("Lead type"),
		Amount:           m.fields.Value("Amount"),
		PermanentAddress: m.fields.Value("Permanent address"),
	}
}

func (m caseFormModel) Update(msg tea.Msg) (caseFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case caseDetailMsg:
		m.loading = false
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		m.setDetail(msg.detail)
		return m, nil

	case caseSubmitDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.alert = alertText(msg.err)
			return m, nil
		}
		m.tree.ClearDeletionQueue()
		m.tree.MarkUploaded()
		if len(msg.detail.DocumentSections) > 0 {
			m.setDetail(msg.detail)
		}
		return m, reportStatus("Case saved")

	case caseAuditMsg:
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		m.audit = msg.entries
		m.mode = caseViewingAudit
		return m, nil

	case downloadDoneMsg:
		m.downloading = false
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		return m, reportStatus("Documents saved to " + msg.path)

	case actionDoneMsg:
		if msg.view != ViewCaseForm {
			return m, nil
		}
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		return m, reportStatus(msg.text)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m caseFormModel) handleKey(key tea.KeyMsg) (caseFormModel, tea.Cmd) {
	switch m.mode {
	case caseEditingFields:
		if key.String() == "esc" || key.String() == "enter" {
			m.mode = caseBrowsing
			return m, nil
		}
		var cmd tea.Cmd
		m.fields, cmd = m.fields.Update(key)
		return m, cmd

	case caseEnteringPath, caseRenamingDoc, caseCommenting:
		return m.handleInputMode(key)

	case caseViewingAudit:
		if key.String() == "esc" || key.String() == "q" {
			m.mode = caseBrowsing
		}
		return m, nil
	}

	switch key.String() {
	case "esc", "q":
		return m, switchTo(ViewCases)
	case "up", "k":
		m.moveDoc(-1)
		return m, nil
	case "down", "j":
		m.moveDoc(1)
		return m, nil
	case "[":
		if m.fileIdx > 0 {
			m.fileIdx--
		}
		return m, nil
	case "]":
		if m.tree != nil && m.fileIdx < len(m.tree.VisibleFiles(m.sectionIdx, m.docIdx))-1 {
			m.fileIdx++
		}
		return m, nil
	case "e":
		m.mode = caseEditingFields
		return m, nil
	case "a":
		return m.startInput(caseEnteringPath, "/path/to/file.pdf")
	case "x":
		return m.removeSelectedFile()
	case "S":
		if m.tree != nil {
			m.tree.AddSection("")
		}
		return m, nil
	case "X":
		if m.tree != nil {
			if err := m.tree.RemoveSection(m.sectionIdx); err != nil {
				m.alert = alertText(err)
			} else {
				m.sectionIdx, m.docIdx, m.fileIdx = 0, 0, 0
			}
		}
		return m, nil
	case "N":
		if m.tree != nil {
			if err := m.tree.AddDocumentType(m.sectionIdx, ""); err != nil {
				m.alert = alertText(err)
			}
		}
		return m, nil
	case "D":
		if m.tree != nil {
			if err := m.tree.RemoveDocumentType(m.sectionIdx, m.docIdx); err != nil {
				m.alert = alertText(err)
			} else if m.docIdx > 0 {
				m.docIdx--
			}
		}
		return m, nil
	case "R":
		return m.startInput(caseRenamingDoc, "new document name")
	case "ctrl+s":
		return m.submit()
	case "s":
		if !m.public {
			return m, m.cycleStatusCmd()
		}
	case "c":
		if !m.public {
			return m.startInput(caseCommenting, "comment")
		}
	case "v":
		if !m.public {
			svc, id := m.deps.svc.Cases, m.caseID
			return m, func() tea.Msg {
				entries, err := svc.Audit(context.Background(), id)
				return caseAuditMsg{entries: entries, err: err}
			}
		}
	case "g":
		if !m.public && !m.downloading {
			return m.startDownload()
		}
	}
	return m, nil
}

func (m caseFormModel) startInput(mode caseFormMode, placeholder string) (caseFormModel, tea.Cmd) {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

func (m caseFormModel) handleInputMode(key tea.KeyMsg) (caseFormModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = caseBrowsing
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = caseBrowsing
		m.input.Blur()
		switch mode {
		case caseEnteringPath:
			return m.attachFile(value)
		case caseRenamingDoc:
			if m.tree != nil {
				if err := m.tree.RenameDocumentType(m.sectionIdx, m.docIdx, value); err != nil {
					m.alert = alertText(err)
				}
			}
			return m, nil
		case caseCommenting:
			if value == "" {
				return m, nil
			}
			svc, id := m.deps.svc.Cases, m.caseID
			return m, func() tea.Msg {
				err := svc.Comment(context.Background(), id, value)
				return actionDoneMsg{view: ViewCaseForm, text: "Comment added", err: err}
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m caseFormModel) attachFile(path string) (caseFormModel, tea.Cmd) {
	if m.tree == nil || path == "" {
		return m, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		m.alert = "Could not read " + path
		return m, nil
	}
	err = m.tree.AddFiles(m.sectionIdx, m.docIdx, []doctree.NewFile{{
		Name:    filepath.Base(path),
		MIME:    mimeByExt(path),
		Content: content,
	}})
	if err != nil {
		m.alert = alertText(err)
	}
	return m, nil
}

func (m caseFormModel) removeSelectedFile() (caseFormModel, tea.Cmd) {
	if m.tree == nil {
		return m, nil
	}
	visible := m.tree.VisibleFiles(m.sectionIdx, m.docIdx)
	if m.fileIdx >= len(visible) {
		return m, nil
	}
	// Map the visible index back onto the underlying slice, which still
	// holds soft-deleted entries.
	target := visible[m.fileIdx]
	all := m.tree.Sections()[m.sectionIdx].Documents[m.docIdx].Files
	for i, f := range all {
		if f.ID == target.ID {
			if err := m.tree.RemoveFile(m.sectionIdx, m.docIdx, i); err != nil {
				m.alert = alertText(err)
			}
			break
		}
	}
	if m.fileIdx > 0 {
		m.fileIdx--
	}
	return m, nil
}

func (m caseFormModel) submit() (caseFormModel, tea.Cmd) {
	if m.tree == nil {
		return m, nil
	}
	scalars := map[string]string{
		"customerName":     m.fields.Value("Customer name"),
		"mobile":           m.fields.Value("Mobile"),
		"email":            m.fields.Value("Email"),
		"leadType":         m.fields.Value("Lead type"),
		"amount":           m.fields.Value("Amount"),
		"permanentAddress": m.fields.Value("Permanent address"),
		"notes":            m.fields.Value("Notes"),
	}
	form, err := m.tree.BuildSubmitForm(scalars)
	if err != nil {
		m.alert = alertText(err)
		return m, nil
	}
	m.loading = true
	svc, id, public := m.deps.svc.Cases, m.caseID, m.public
	return m, func() tea.Msg {
		detail, err := svc.Submit(context.Background(), id, form, public)
		return caseSubmitDoneMsg{detail: detail, err: err}
	}
}

func (m *caseFormModel) cycleStatusCmd() tea.Cmd {
	next := caseStatusCycle[0]
	for i, status := range caseStatusCycle {
		if status == m.detail.Status {
			next = caseStatusCycle[(i+1)%len(caseStatusCycle)]
			break
		}
	}
	svc, id := m.deps.svc.Cases, m.caseID
	return func() tea.Msg {
		err := svc.Update(context.Background(), id, dto.UpdateCaseDTO{Status: &next})
		return actionDoneMsg{view: ViewCaseForm, text: "Status set to " + next, err: err}
	}
}

func (m caseFormModel) startDownload() (caseFormModel, tea.Cmd) {
	m.downloading = true
	svc, id, caseID := m.deps.svc.Cases, m.caseID, m.detail.CaseID
	return m, func() tea.Msg {
		name := fmt.Sprintf("case_%s_documents.zip", caseID)
		f, err := os.Create(name)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		defer f.Close()
		err = svc.DownloadDocuments(context.Background(), id, f, nil)
		return downloadDoneMsg{path: name, err: err}
	}
}

func (m *caseFormModel) moveDoc(delta int) {
	if m.tree == nil {
		return
	}
	sections := m.tree.Sections()
	si, di := m.sectionIdx, m.docIdx+delta
	for {
		if si < 0 || si >= len(sections) {
			return
		}
		if di < 0 {
			si--
			if si < 0 {
				return
			}
			di = len(sections[si].Documents) - 1
			continue
		}
		if di >= len(sections[si].Documents) {
			si++
			di = 0
			continue
		}
		break
	}
	m.sectionIdx, m.docIdx, m.fileIdx = si, di, 0
}

func (m caseFormModel) View() string {
	title := "Case " + m.detail.CaseID
	if m.public {
		title += " (shared)"
	}
	header := titleStyle.Render(title)
	if m.loading {
		header += faintStyle.Render("  working...")
	}

	switch m.mode {
	case caseEditingFields:
		return header + "\n\n" + m.fields.View() + helpStyle.Render("enter/esc done")
	case caseEnteringPath:
		return header + "\n\n" + labelStyle.Render("Attach file") + "\n" + m.input.View() +
			helpStyle.Render("\nenter attach  esc cancel")
	case caseRenamingDoc:
		return header + "\n\n" + labelStyle.Render("Rename document type") + "\n" + m.input.View() +
			helpStyle.Render("\nenter rename  esc cancel")
	case caseCommenting:
		return header + "\n\n" + labelStyle.Render("Comment") + "\n" + m.input.View() +
			helpStyle.Render("\nenter post  esc cancel")
	case caseViewingAudit:
		return header + "\n\n" + m.auditView() + helpStyle.Render("esc back")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	if m.tree != nil {
		progress := m.tree.ComputeProgress(m.requiredFields())
		b.WriteString(fmt.Sprintf("%s %d%%   active files: %d\n\n",
			labelStyle.Render("Completion:"), progress, m.tree.ComputeTotalActiveFiles()))
		b.WriteString(m.treeView())
	}
	if m.alert != "" {
		b.WriteString(errorStyle.Render(m.alert) + "\n")
	}
	help := "e fields  a attach  x remove file  [/] file  N/D doc type  S/X section  R rename  ctrl+s save  esc back"
	if !m.public {
		help += "  s status  c comment  v audit  g download"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m caseFormModel) treeView() string {
	var b strings.Builder
	for si, section := range m.tree.Sections() {
		b.WriteString(labelStyle.Render(section.Name) + "\n")
		for di, doc := range section.Documents {
			marker := "  "
			if si == m.sectionIdx && di == m.docIdx {
				marker = "> "
			}
			files := m.tree.VisibleFiles(si, di)
			b.WriteString(fmt.Sprintf("%s%s (%d)\n", marker, doc.Name, len(files)))
			for fi, f := range files {
				cursor := "    "
				if si == m.sectionIdx && di == m.docIdx && fi == m.fileIdx {
					cursor = "  * "
				}
				state := "pending"
				if f.IsUploaded {
					state = "uploaded"
				}
				b.WriteString(faintStyle.Render(fmt.Sprintf("%s%s  %s  %s", cursor, f.Name, byteSize(f.Size), state)) + "\n")
			}
		}
	}
	if queued := len(m.tree.DeletionQueue()); queued > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("%d file(s) queued for deletion on save", queued)) + "\n")
	}
	return b.String()
}

func (m caseFormModel) auditView() string {
	if len(m.audit) == 0 {
		return faintStyle.Render("No audit entries")
	}
	var b strings.Builder
	for _, entry := range m.audit {
		actor := "system"
		if entry.Actor != nil {
			actor = entry.Actor.Name
		}
		line := fmt.Sprintf("%s  %s  %s", entry.CreatedAt, actor, entry.Action)
		if entry.FromStatus != "" || entry.ToStatus != "" {
			line += fmt.Sprintf("  %s → %s", entry.FromStatus, entry.ToStatus)
		}
		if entry.Comment != "" {
			line += "  " + entry.Comment
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func mimeByExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func byteSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
