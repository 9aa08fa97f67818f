// Package seed 生成本地开发用的演示 fixture
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/fixture"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

var branch = domain.Branch{ID: 1, Name: "总店", Enabled: true}

var departments = []domain.BranchWorkingArea{
	{ID: 101, Branch: branch, WorkingArea: domain.WorkingArea{ID: 11, Name: "前台", Status: true}, Sort: 1, Status: true},
	{ID: 102, Branch: branch, WorkingArea: domain.WorkingArea{ID: 12, Name: "后厨", Status: true}, Sort: 2, Status: true},
	{ID: 103, Branch: branch, WorkingArea: domain.WorkingArea{ID: 13, Name: "吧台", Status: true}, Sort: 3, Status: true},
}

var tags = []domain.Tag{
	{ID: 1, Value: "开店", Status: true, Sort: 1},
	{ID: 2, Value: "闭店", Status: true, Sort: 2},
	{ID: 3, Value: "盘点", Status: true, Sort: 3},
	{ID: 4, Value: "培训", Status: true, Sort: 4},
}

type slot struct {
	startHour, endHour int
}

// 每个部门每天的班次，吧台的晚班到 22:00 结束，未成年员工不能上
var departmentSlots = map[int64][]slot{
	101: {{8, 14}, {14, 20}},
	102: {{7, 13}, {13, 19}},
	103: {{10, 16}, {16, 22}},
}

type Options struct {
	WeekStart   time.Time // 会被对齐到所在周的周一
	Employees   int
	EmailDomain string
	Seed        int64
}

// Generate 生成一周的演示班次，约八成班次已分配员工
func Generate(opts Options) []domain.Shift {
	r := rand.New(rand.NewSource(opts.Seed))
	newID := func() string {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}

	employees := generateEmployees(r, opts, newID)
	weekStart := week.StartOf(opts.WeekStart)

	var shifts []domain.Shift
	for _, day := range week.Weekdays[:6] {
		date := week.DateOf(weekStart, day)
		y, m, d := date.Date()

		for _, dept := range departments {
			for _, sl := range departmentSlots[dept.ID] {
				start := time.Date(y, m, d, sl.startHour, 0, 0, 0, date.Location())
				end := time.Date(y, m, d, sl.endHour, 0, 0, 0, date.Location())

				var candidate *domain.Candidate
				if r.Float64() < 0.8 {
					if emp, ok := pickEligible(r, employees, start, end); ok {
						candidate = &domain.Candidate{ID: newID(), Employee: emp}
					}
				}

				sh := scheduler.NewShift(newID(), dept, start, end, candidate)
				sh.Publish = true
				if r.Float64() < 0.2 {
					tag := tags[r.Intn(len(tags))]
					sh.Tags = append(sh.Tags, domain.ShiftTag{ID: newID(), Status: true, Tag: tag})
				}
				shifts = append(shifts, sh)
			}
		}
	}
	return shifts
}

// GenerateJSON 生成与 shifts.json 格式一致的演示数据
func GenerateJSON(opts Options) ([]byte, error) {
	return fixture.Encode(Generate(opts))
}

func generateEmployees(r *rand.Rand, opts Options, newID func() string) []domain.Employee {
	employees := make([]domain.Employee, 0, opts.Employees)
	used := make(map[string]bool, opts.Employees)

	for i := 0; i < opts.Employees; i++ {
		username := usernameFromChineseName(r, randomChineseName(r))
		for used[username] {
			username += string(digits[r.Intn(len(digits))])
		}
		used[username] = true

		employees = append(employees, domain.Employee{
			ID:         newID(),
			Email:      fmt.Sprintf("%s@%s", username, opts.EmailDomain),
			Employment: 1,
			Username:   username,
			IsUnderage: i%4 == 3,
		})
	}
	return employees
}

func pickEligible(r *rand.Rand, employees []domain.Employee, start, end time.Time) (domain.Employee, bool) {
	if len(employees) == 0 {
		return domain.Employee{}, false
	}
	offset := r.Intn(len(employees))
	for i := range employees {
		emp := employees[(offset+i)%len(employees)]
		if scheduler.CheckEligibility(emp, start, end) == nil {
			return emp, true
		}
	}
	return domain.Employee{}, false
}
