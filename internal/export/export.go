// Package export 将一周的排班视图导出为 Excel 文件
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName  = "排班表"
	Unassigned = "未分配"
)

var weekdayNames = map[week.Weekday]string{
	week.Monday:    "周一",
	week.Tuesday:   "周二",
	week.Wednesday: "周三",
	week.Thursday:  "周四",
	week.Friday:    "周五",
	week.Saturday:  "周六",
	week.Sunday:    "周日",
}

// FileName 返回导出文件的默认文件名
func FileName(b week.Board) string {
	return fmt.Sprintf("shifts-%s.xlsx", b.WeekStart.Format("2006-01-02"))
}

// CellText 把同一格内的班次渲染为多行文本，每行形如 "08:00-14:00 alice"
func CellText(shifts []domain.Shift) string {
	lines := make([]string, 0, len(shifts))
	for _, s := range shifts {
		who := Unassigned
		if s.Candidate != nil && s.Candidate.Employee.Username != "" {
			who = s.Candidate.Employee.Username
		}
		lines = append(lines, fmt.Sprintf("%s-%s %s", s.StartTZ.Format("15:04"), s.EndTZ.Format("15:04"), who))
	}
	return strings.Join(lines, "\n")
}

// Board 生成一周排班的 xlsx 文件：每个部门一行，每个星期一列
func Board(b week.Board) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("无法创建工作表: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("无法删除默认工作表: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建表头样式: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建单元格样式: %w", err)
	}

	// 表头
	headers := make([]any, 0, len(b.Days)+1)
	headers = append(headers, "部门")
	for _, d := range b.Days {
		headers = append(headers, fmt.Sprintf("%s %s", weekdayNames[d.Weekday], d.Date.Format("01-02")))
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("无法写入表头: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("无法设置表头样式: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", lastCol, 24); err != nil {
		return nil, err
	}

	// 数据，从第 2 行开始
	for i, row := range b.Rows {
		values := make([]any, 0, len(b.Days)+1)
		values = append(values, row.Department.Name())
		for _, d := range b.Days {
			values = append(values, CellText(row.Days[d.Weekday]))
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("无法写入第 %d 行: %w", i+2, err)
		}
		if err := f.SetCellStyle(SheetName, cell, fmt.Sprintf("%s%d", lastCol, i+2), cellStyle); err != nil {
			return nil, err
		}
	}

	// 冻结表头和部门列
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, fmt.Errorf("无法冻结表头: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("无法写出文件: %w", err)
	}
	return buf.Bytes(), nil
}
