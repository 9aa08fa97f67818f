package notify

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var assignmentTemplate = template.Must(template.ParseFS(templateFS, "templates/assignment.html"))

const AssignmentSubject = "排班通知 - 新的班次安排"

var weekdayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

type mailShift struct {
	Date       string
	Department string
	Start      string
	End        string
}

type assignmentMailData struct {
	Username string
	Shifts   []mailShift
}

// 会让员工得到新班次的事件
var assigningEvents = map[domain.EventType]bool{
	domain.EventShiftAdded:        true,
	domain.EventEmployeeAssigned:  true,
	domain.EventShiftsSwapped:     true,
	domain.EventShiftMoved:        true,
	domain.EventTemplateGenerated: true,
	domain.EventShiftsAutoFilled:  true,
}

// BuildAssignmentMails 为事件中被安排了班次的每个员工生成一封邮件，没有邮箱的员工会被跳过
func BuildAssignmentMails(ev domain.Event, from string) ([]*mail.Msg, error) {
	if !assigningEvents[ev.Type] {
		return nil, nil
	}

	var order []string
	recipients := make(map[string]*domain.Employee)
	data := make(map[string]*assignmentMailData)

	for _, s := range ev.Shifts {
		if s.Candidate == nil || s.Candidate.Employee.Email == "" {
			continue
		}
		emp := s.Candidate.Employee
		if _, ok := data[emp.ID]; !ok {
			order = append(order, emp.ID)
			recipients[emp.ID] = &emp
			data[emp.ID] = &assignmentMailData{Username: emp.Username}
		}
		data[emp.ID].Shifts = append(data[emp.ID].Shifts, mailShift{
			Date:       fmt.Sprintf("%s %s", s.StartTZ.Format("2006-01-02"), weekdayNames[s.StartTZ.Weekday()]),
			Department: s.Department.Name(),
			Start:      s.StartTZ.Format("15:04"),
			End:        s.EndTZ.Format("15:04"),
		})
	}

	msgs := make([]*mail.Msg, 0, len(order))
	for _, id := range order {
		m := mail.NewMsg()
		if err := m.From(from); err != nil {
			return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
		}
		if err := m.To(recipients[id].Email); err != nil {
			return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
		}
		m.Subject(AssignmentSubject)
		if err := m.SetBodyHTMLTemplate(assignmentTemplate, data[id]); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
