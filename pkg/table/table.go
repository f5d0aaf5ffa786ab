// Package table renders column-configurable rows with a pager line, for
// the terminal and for XLSX export. It performs no I/O of its own and
// knows nothing about the entities it shows; cells come from a field name
// or a caller-supplied render function.
package table

import (
	"database/sql/driver"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xuri/excelize/v2"
)

// RenderMode selects the cell representation: what the operator sees on
// screen versus the raw value written to a spreadsheet.
type RenderMode int

const (
	ModeDisplay RenderMode = iota
	ModeExport
)

// Column is either a field column (resolved by struct field name) or a
// computed column (resolved by the render function). Exactly one of the two
// is set; the constructors below keep that straight.
type Column[T any] struct {
	Header string
	Field  string
	Render func(row T, index int, mode RenderMode) string
}

func FieldColumn[T any](header, field string) Column[T] {
	return Column[T]{Header: header, Field: field}
}

func ComputedColumn[T any](header string, render func(row T, index int, mode RenderMode) string) Column[T] {
	return Column[T]{Header: header, Render: render}
}

func (c Column[T]) cell(row T, index int, mode RenderMode) string {
	if c.Render != nil {
		return c.Render(row, index, mode)
	}
	return fieldValue(row, c.Field)
}

// fieldValue resolves a column's field name against the row struct.
// Nullable wrapper types unwrap through driver.Valuer; an invalid value
// renders empty rather than as a struct dump.
func fieldValue(row any, name string) string {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	field := v.FieldByName(name)
	if !field.IsValid() {
		return ""
	}
	if valuer, ok := field.Interface().(driver.Valuer); ok {
		raw, err := valuer.Value()
		if err != nil || raw == nil {
			return ""
		}
		return fmt.Sprintf("%v", raw)
	}
	return fmt.Sprintf("%v", field.Interface())
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).PaddingRight(2)
	cellStyle        = lipgloss.NewStyle().PaddingRight(2)
	placeholderStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	pagerStyle       = lipgloss.NewStyle().Faint(true)
	selectedStyle    = lipgloss.NewStyle().Reverse(true)
)

// Model holds only what it is given: the column set and the current page of
// rows plus the server's page numbers. Fetching stays with the caller.
type Model[T any] struct {
	columns  []Column[T]
	rows     []T
	page     int
	pages    int
	cursor   int
	onPage   func(page int)
	onSearch func(text string)
}

func New[T any](columns []Column[T]) *Model[T] {
	return &Model[T]{columns: columns, page: 1, pages: 1}
}

// SetRows replaces the displayed page. The cursor is clamped into the new
// row range.
func (m *Model[T]) SetRows(rows []T, page, pages int) {
	m.rows = rows
	m.page = page
	m.pages = pages
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// OnPageChange registers the pager callback. The model never requests a
// page outside [1, max(pages, 1)].
func (m *Model[T]) OnPageChange(fn func(page int)) { m.onPage = fn }

// OnSearchChange registers the search callback; every keystroke's current
// value is forwarded unmodified.
func (m *Model[T]) OnSearchChange(fn func(text string)) { m.onSearch = fn }

func (m *Model[T]) Search(text string) {
	if m.onSearch != nil {
		m.onSearch(text)
	}
}

// NextPage requests the following page; a no-op at the last one.
func (m *Model[T]) NextPage() {
	if m.page < m.maxPages() && m.onPage != nil {
		m.onPage(m.page + 1)
	}
}

// PrevPage requests the preceding page; a no-op at page 1.
func (m *Model[T]) PrevPage() {
	if m.page > 1 && m.onPage != nil {
		m.onPage(m.page - 1)
	}
}

func (m *Model[T]) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model[T]) CursorDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

func (m *Model[T]) Cursor() int { return m.cursor }

// Selected returns the row under the cursor, if any.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return zero, false
	}
	return m.rows[m.cursor], true
}

// View renders the header, the rows (or the placeholder when the page is
// empty) and the pager line.
func (m *Model[T]) View() string {
	widths := m.columnWidths()

	var b strings.Builder
	for ci, col := range m.columns {
		b.WriteString(headerStyle.Width(widths[ci] + 2).Render(col.Header))
	}
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(placeholderStyle.Render("No records found"))
		b.WriteString("\n")
	} else {
		for ri, row := range m.rows {
			line := make([]string, 0, len(m.columns))
			for ci, col := range m.columns {
				line = append(line, cellStyle.Width(widths[ci]+2).Render(col.cell(row, ri, ModeDisplay)))
			}
			rendered := strings.Join(line, "")
			if ri == m.cursor {
				rendered = selectedStyle.Render(rendered)
			}
			b.WriteString(rendered)
			b.WriteString("\n")
		}
	}

	b.WriteString(pagerStyle.Render(m.PagerLine()))
	return b.String()
}

// PagerLine is the "Page p / n" footer; a server that reported zero pages
// still shows one.
func (m *Model[T]) PagerLine() string {
	return fmt.Sprintf("Page %d / %d", m.page, m.maxPages())
}

func (m *Model[T]) maxPages() int {
	if m.pages < 1 {
		return 1
	}
	return m.pages
}

func (m *Model[T]) columnWidths() []int {
	widths := make([]int, len(m.columns))
	for ci, col := range m.columns {
		widths[ci] = lipgloss.Width(col.Header)
	}
	for ri, row := range m.rows {
		for ci, col := range m.columns {
			if w := lipgloss.Width(col.cell(row, ri, ModeDisplay)); w > widths[ci] {
				widths[ci] = w
			}
		}
	}
	return widths
}

// ExportXLSX writes every visible row to a spreadsheet, one column per
// table column, rendered in export mode.
func (m *Model[T]) ExportXLSX(w io.Writer, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheetName == "" {
		sheetName = "Export"
	}
	f.SetSheetName("Sheet1", sheetName)

	headers := make([]interface{}, 0, len(m.columns))
	for _, col := range m.columns {
		headers = append(headers, col.Header)
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("could not write header row: %w", err)
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(m.columns), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, style)

	for ri, row := range m.rows {
		cells := make([]interface{}, 0, len(m.columns))
		for _, col := range m.columns {
			cells = append(cells, col.cell(row, ri, ModeExport))
		}
		cell, _ := excelize.CoordinatesToCellName(1, ri+2)
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("could not write row %d: %w", ri+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}
