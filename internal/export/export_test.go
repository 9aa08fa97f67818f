package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
	"github.com/xuri/excelize/v2"
)

func shiftAt(id string, dept domain.BranchWorkingArea, start time.Time, hours int, username string) domain.Shift {
	s := domain.Shift{
		ID:         id,
		StartTZ:    start,
		EndTZ:      start.Add(time.Duration(hours) * time.Hour),
		Department: dept,
	}
	if username != "" {
		s.Candidate = &domain.Candidate{ID: "c-" + id, Employee: domain.Employee{ID: "e-" + username, Username: username}}
	}
	return s
}

func TestCellText(t *testing.T) {
	dept := domain.BranchWorkingArea{ID: 1}
	mon := time.Date(2025, time.November, 17, 8, 0, 0, 0, time.UTC)

	text := CellText([]domain.Shift{
		shiftAt("a", dept, mon, 6, "alice"),
		shiftAt("b", dept, mon.Add(6*time.Hour), 6, ""),
	})
	assert.Equal(t, "08:00-14:00 alice\n14:00-20:00 未分配", text)
	assert.Empty(t, CellText(nil))
}

func TestBoard(t *testing.T) {
	kitchen := domain.BranchWorkingArea{ID: 1, WorkingArea: domain.WorkingArea{ID: 10, Name: "Kitchen"}}
	bar := domain.BranchWorkingArea{ID: 2, WorkingArea: domain.WorkingArea{ID: 20, Name: "Bar"}}
	mon := time.Date(2025, time.November, 17, 8, 0, 0, 0, time.UTC)

	b := week.BuildBoard([]domain.Shift{
		shiftAt("a", kitchen, mon, 6, "alice"),
		shiftAt("b", bar, mon.AddDate(0, 0, 2), 4, "bob"),
		shiftAt("c", bar, mon.AddDate(0, 0, 2).Add(5*time.Hour), 4, ""),
	}, []domain.BranchWorkingArea{kitchen, bar}, mon)

	data, err := Board(b)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "部门", rows[0][0])
	assert.Equal(t, "周一 11-17", rows[0][1])
	assert.Equal(t, "周日 11-23", rows[0][7])

	// 部门按名称排序
	assert.Equal(t, "Bar", rows[1][0])
	assert.Equal(t, "08:00-12:00 bob\n13:00-17:00 未分配", rows[1][3])
	assert.Equal(t, "Kitchen", rows[2][0])
	assert.Equal(t, "08:00-14:00 alice", rows[2][1])

	assert.Equal(t, "shifts-2025-11-17.xlsx", FileName(b))
}
