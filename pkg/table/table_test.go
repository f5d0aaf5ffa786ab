package table

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type caseRow struct {
	Name   string
	Amount null.Float64
	Task   null.String
}

func testColumns() []Column[caseRow] {
	return []Column[caseRow]{
		FieldColumn[caseRow]("Customer", "Name"),
		FieldColumn[caseRow]("Amount", "Amount"),
		ComputedColumn[caseRow]("Task", func(row caseRow, _ int, mode RenderMode) string {
			if !row.Task.Valid {
				if mode == ModeExport {
					return ""
				}
				return "-"
			}
			return row.Task.String
		}),
	}
}

func TestView_RendersRowsAndPager(t *testing.T) {
	m := New(testColumns())
	m.SetRows([]caseRow{
		{Name: "Ramesh", Amount: null.Float64From(250000), Task: null.StringFrom("Call")},
		{Name: "Suresh"},
	}, 1, 3)

	out := m.View()
	assert.Contains(t, out, "Customer")
	assert.Contains(t, out, "Ramesh")
	assert.Contains(t, out, "250000")
	assert.Contains(t, out, "-", "an unset nullable renders its display fallback")
	assert.Contains(t, out, "Page 1 / 3")
	assert.NotContains(t, out, "No records found")
}

func TestView_EmptyRowsShowsPlaceholder(t *testing.T) {
	m := New(testColumns())
	m.SetRows(nil, 1, 0)

	out := m.View()
	assert.Contains(t, out, "No records found")
	assert.Contains(t, out, "Page 1 / 1", "zero reported pages still shows one")
}

func TestFieldColumn_UnwrapsNullValues(t *testing.T) {
	row := caseRow{Name: "Ramesh", Amount: null.Float64{}}
	assert.Equal(t, "Ramesh", fieldValue(row, "Name"))
	assert.Equal(t, "", fieldValue(row, "Amount"), "an invalid nullable renders empty, never a struct dump")
	assert.Equal(t, "", fieldValue(row, "NoSuchField"))

	row.Amount = null.Float64From(99.5)
	assert.Equal(t, "99.5", fieldValue(row, "Amount"))
}

func TestPager_ClampedAtBounds(t *testing.T) {
	m := New(testColumns())
	var requested []int
	m.OnPageChange(func(p int) { requested = append(requested, p) })

	m.SetRows([]caseRow{{Name: "a"}}, 1, 3)
	m.PrevPage()
	assert.Empty(t, requested, "previous at page 1 fires nothing")

	m.NextPage()
	require.Equal(t, []int{2}, requested)

	m.SetRows([]caseRow{{Name: "a"}}, 3, 3)
	m.NextPage()
	assert.Equal(t, []int{2}, requested, "next at the last page fires nothing")
}

func TestSearch_ForwardsUnmodified(t *testing.T) {
	m := New(testColumns())
	var got []string
	m.OnSearchChange(func(text string) { got = append(got, text) })

	for _, text := range []string{"r", "ra", "ram", "ram "} {
		m.Search(text)
	}
	assert.Equal(t, []string{"r", "ra", "ram", "ram "}, got)
}

func TestCursor_TracksSelection(t *testing.T) {
	m := New(testColumns())
	m.SetRows([]caseRow{{Name: "a"}, {Name: "b"}, {Name: "c"}}, 1, 1)

	m.CursorUp()
	assert.Equal(t, 0, m.Cursor())

	m.CursorDown()
	m.CursorDown()
	m.CursorDown()
	assert.Equal(t, 2, m.Cursor())

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", selected.Name)

	m.SetRows([]caseRow{{Name: "x"}}, 1, 1)
	assert.Equal(t, 0, m.Cursor(), "cursor clamps when the page shrinks")
}

func TestExportXLSX(t *testing.T) {
	m := New(testColumns())
	rows := make([]caseRow, 0, 3)
	for i := 1; i <= 3; i++ {
		rows = append(rows, caseRow{
			Name:   fmt.Sprintf("Customer %d", i),
			Amount: null.Float64From(float64(i) * 1000),
			Task:   null.StringFrom("Call"),
		})
	}
	m.SetRows(rows, 1, 1)

	var buf bytes.Buffer
	require.NoError(t, m.ExportXLSX(&buf, "Cases"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows("Cases")
	require.NoError(t, err)
	require.Len(t, cells, 4, "header plus one row per visible record")
	assert.Equal(t, []string{"Customer", "Amount", "Task"}, cells[0])
	assert.Equal(t, "Customer 1", cells[1][0])
	assert.True(t, strings.HasPrefix(cells[1][1], "1000"))
}
