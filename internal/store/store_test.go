package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/fixture"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/week"
)

func TestAssignEmployee_ReplacesCandidate(t *testing.T) {
	s := newSeededStore(t)

	first, err := s.AssignEmployee("s1", bob)
	require.NoError(t, err)
	second, err := s.AssignEmployee("s1", bob)
	require.NoError(t, err)

	require.NotNil(t, second.Candidate)
	assert.Equal(t, bob.ID, second.Candidate.Employee.ID)
	assert.NotEqual(t, first.Candidate.ID, second.Candidate.ID)
	assert.Equal(t, bob.ID, candidateEmployeeID(mustShift(t, s, "s1")))
}

func TestUnassignEmployee_Idempotent(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.UnassignEmployee("s1")
	require.NoError(t, err)
	sh, err := s.UnassignEmployee("s1")
	require.NoError(t, err)

	assert.Nil(t, sh.Candidate)
	assert.False(t, mustShift(t, s, "s1").IsAssigned())
}

func TestSwapShifts_Symmetry(t *testing.T) {
	s := newSeededStore(t)
	before1, before3 := mustShift(t, s, "s1"), mustShift(t, s, "s3")

	require.NoError(t, s.SwapShifts("s1", "s3"))
	mid1, mid3 := mustShift(t, s, "s1"), mustShift(t, s, "s3")
	assert.Equal(t, "", candidateEmployeeID(mid1))
	assert.Equal(t, alice.ID, candidateEmployeeID(mid3))

	require.NoError(t, s.SwapShifts("s1", "s3"))
	after1, after3 := mustShift(t, s, "s1"), mustShift(t, s, "s3")
	assert.Equal(t, before1, after1)
	assert.Equal(t, before3, after3)

	for _, pair := range [][2]domain.Shift{{before1, mid1}, {before3, mid3}} {
		assert.Equal(t, pair[0].ID, pair[1].ID)
		assert.Equal(t, pair[0].StartTZ, pair[1].StartTZ)
		assert.Equal(t, pair[0].EndTZ, pair[1].EndTZ)
		assert.Equal(t, pair[0].Department, pair[1].Department)
	}
}

func TestSwapShifts_UnknownIDIsNotFound(t *testing.T) {
	s := newSeededStore(t)
	before := s.State()

	assert.ErrorIs(t, s.SwapShifts("s1", "missing"), domain.ErrShiftNotFound)
	assert.Equal(t, before.Shifts, s.State().Shifts)
}

func TestMoveShiftTo_IsNotSwap(t *testing.T) {
	s := newSeededStore(t)

	require.NoError(t, s.MoveShiftTo("s1", "s2"))

	source, target := mustShift(t, s, "s1"), mustShift(t, s, "s2")
	assert.Nil(t, source.Candidate)
	require.NotNil(t, target.Candidate)
	assert.Equal(t, alice.ID, target.Candidate.Employee.ID)
	assert.Equal(t, "c-s1", target.Candidate.ID)
	assert.Equal(t, at(17, 14), target.StartTZ)
	assert.Equal(t, kitchen, target.Department)
}

func TestMoveShiftTo_UnassignedSourceClearsTarget(t *testing.T) {
	s := newSeededStore(t)

	require.NoError(t, s.MoveShiftTo("s3", "s2"))
	assert.Nil(t, mustShift(t, s, "s2").Candidate)
	assert.ErrorIs(t, s.MoveShiftTo("missing", "s2"), domain.ErrShiftNotFound)
}

func TestMoveAndSwap_SameShiftIsNoop(t *testing.T) {
	s := newSeededStore(t)

	require.NoError(t, s.MoveShiftTo("s1", "s1"))
	require.NoError(t, s.SwapShifts("s1", "s1"))
	assert.Equal(t, alice.ID, candidateEmployeeID(mustShift(t, s, "s1")))
}

func TestUnderageRestriction_AppliedToPlacements(t *testing.T) {
	s := newSeededStore(t)

	// s4 为 21:00-23:00
	_, err := s.AssignEmployee("s4", minor)
	var ineligible *domain.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, bob.ID, candidateEmployeeID(mustShift(t, s, "s4")))

	_, err = s.AssignEmployee("s3", minor)
	require.NoError(t, err)

	assert.ErrorAs(t, s.MoveShiftTo("s3", "s4"), &ineligible)
	assert.ErrorAs(t, s.SwapShifts("s3", "s4"), &ineligible)
	assert.Equal(t, minor.ID, candidateEmployeeID(mustShift(t, s, "s3")))

	late := at(20, 19)
	_, err = s.UpdateShift("s3", domain.ShiftPatch{EndTZ: &late})
	assert.NoError(t, err, "s3 在 20 日 19:00 结束仍然有效")
	later := at(18, 21)
	_, err = s.UpdateShift("s3", domain.ShiftPatch{EndTZ: &later})
	assert.ErrorAs(t, err, &ineligible)
}

func TestAddShift(t *testing.T) {
	s := newSeededStore(t)

	sh, err := s.AddShift(NewShift{
		Department: bar,
		Date:       at(20, 0),
		StartTime:  "09:30",
		EndTime:    "17:00",
		Employee:   &alice,
	})
	require.NoError(t, err)

	assert.Equal(t, at(20, 9).Add(30*time.Minute), sh.StartTZ)
	assert.Equal(t, at(20, 17), sh.EndTZ)
	assert.Equal(t, 450, sh.WorkingTimeInMinutes)
	require.NotNil(t, sh.Candidate)
	assert.Equal(t, alice.ID, sh.Candidate.Employee.ID)

	st := s.State()
	require.Len(t, st.Shifts, 5)
	assert.Equal(t, sh.ID, st.Shifts[4].ID)

	unassigned, err := s.AddShift(NewShift{Department: bar, Date: at(21, 0), StartTime: "08:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Nil(t, unassigned.Candidate)
	assert.NotEqual(t, sh.ID, unassigned.ID)
}

func TestAddShift_Validation(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.AddShift(NewShift{Department: bar, Date: at(20, 0), StartTime: "17:00", EndTime: "09:00"})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)

	_, err = s.AddShift(NewShift{Department: bar, Date: at(20, 0), StartTime: "09:00", EndTime: "09:00"})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)

	_, err = s.AddShift(NewShift{Date: at(20, 0), StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, domain.ErrDepartmentRequired)

	_, err = s.AddShift(NewShift{Department: bar, Date: at(20, 0), StartTime: "21:00", EndTime: "23:00", Employee: &minor})
	var ineligible *domain.IneligibleError
	assert.ErrorAs(t, err, &ineligible)

	assert.Len(t, s.State().Shifts, 4)
}

func TestAddShift_IDsStayUnique(t *testing.T) {
	ids := []string{"s1", "s2", "fresh-1", "fresh-2"}
	n := 0
	s := newSeededStore(t, WithIDGenerator(func() string {
		id := ids[n%len(ids)]
		n++
		return id
	}))

	sh, err := s.AddShift(NewShift{Department: bar, Date: at(20, 0), StartTime: "08:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-1", sh.ID)
}

func TestUpdateShift(t *testing.T) {
	s := newSeededStore(t)

	note := "bring keys"
	start, end := at(17, 9), at(17, 12)
	sh, err := s.UpdateShift("s1", domain.ShiftPatch{Note: &note, StartTZ: &start, EndTZ: &end, Department: &bar})
	require.NoError(t, err)

	assert.Equal(t, "bring keys", sh.Note)
	assert.Equal(t, 180, sh.WorkingTimeInMinutes)
	assert.Equal(t, bar, sh.Department)
	assert.Equal(t, alice.ID, candidateEmployeeID(sh))

	_, err = s.UpdateShift("missing", domain.ShiftPatch{Note: &note})
	assert.ErrorIs(t, err, domain.ErrShiftNotFound)

	inverted := at(17, 8)
	_, err = s.UpdateShift("s1", domain.ShiftPatch{EndTZ: &inverted})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
	assert.Equal(t, end, mustShift(t, s, "s1").EndTZ)
}

func TestUpdateShiftTags(t *testing.T) {
	s := newSeededStore(t)

	sh, err := s.UpdateShiftTags("s1", []int64{6, 5, 6})
	require.NoError(t, err)
	require.Len(t, sh.Tags, 2)
	assert.Equal(t, "Training", sh.Tags[0].Tag.Value)
	assert.NotEqual(t, sh.Tags[0].ID, sh.Tags[1].ID)

	_, err = s.UpdateShiftTags("s1", []int64{5, 99})
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
	assert.Len(t, mustShift(t, s, "s1").Tags, 2)

	_, err = s.UpdateShiftTags("missing", []int64{5})
	assert.ErrorIs(t, err, domain.ErrShiftNotFound)

	sh, err = s.UpdateShiftTags("s1", nil)
	require.NoError(t, err)
	assert.Empty(t, sh.Tags)
}

func TestPurgeShifts(t *testing.T) {
	s := newSeededStore(t)
	before := s.State()

	require.NoError(t, s.PurgeShifts())

	after := s.State()
	assert.Empty(t, after.Shifts)
	assert.Equal(t, before.Employees, after.Employees)
	assert.Equal(t, before.Departments, after.Departments)
	assert.Equal(t, before.Tags, after.Tags)
	assert.Equal(t, before.ReferenceDate, after.ReferenceDate)
}

func TestGenerateTemplate_IsolatesDepartment(t *testing.T) {
	s := newSeededStore(t)
	before := s.State()

	created, err := s.GenerateTemplate(scheduler.TemplateParams{
		ShiftsPerDay:     2,
		ShiftLengthHours: 6,
		SelectedDays:     []week.Weekday{week.Monday, week.Tuesday},
		Department:       kitchen,
	})
	require.NoError(t, err)
	require.Len(t, created, 4)

	after := s.State()
	barBefore, barAfter := []domain.Shift{}, []domain.Shift{}
	for _, sh := range before.Shifts {
		if sh.Department.ID == bar.ID {
			barBefore = append(barBefore, sh)
		}
	}
	kitchenIDs := []string{}
	for _, sh := range after.Shifts {
		if sh.Department.ID == bar.ID {
			barAfter = append(barAfter, sh)
		} else {
			kitchenIDs = append(kitchenIDs, sh.ID)
		}
	}
	assert.Equal(t, barBefore, barAfter)
	assert.Len(t, kitchenIDs, 4)
	assert.NotContains(t, kitchenIDs, "s1")
	assert.NotContains(t, kitchenIDs, "s2")

	// 锚定在演示周
	assert.Equal(t, at(17, 8), created[0].StartTZ)
	assert.Equal(t, at(18, 20), created[3].EndTZ)
}

func TestGenerateTemplate_InvalidParamsKeepState(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.GenerateTemplate(scheduler.TemplateParams{
		ShiftsPerDay:     5,
		ShiftLengthHours: 6,
		SelectedDays:     []week.Weekday{week.Monday},
		Department:       kitchen,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
	assert.Len(t, s.State().Shifts, 4)
}

func TestNavigation(t *testing.T) {
	s := newSeededStore(t)

	assert.Equal(t, at(26, 12), s.GoToNextWeek())
	assert.Equal(t, at(19, 12), s.GoToPreviousWeek())
	assert.Equal(t, at(12, 12), s.GoToPreviousWeek())
	assert.Equal(t, anchor, s.GoToCurrentWeek())

	target := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, target, s.GoToDate(target))
	assert.Equal(t, target, s.State().ReferenceDate)
}

func TestBoard_FiltersToReferenceWeek(t *testing.T) {
	s := newSeededStore(t)
	_, err := s.AddShift(NewShift{Department: bar, Date: at(25, 0), StartTime: "08:00", EndTime: "10:00"})
	require.NoError(t, err)

	b := s.Board()
	total := 0
	for _, row := range b.Rows {
		for _, list := range row.Days {
			total += len(list)
		}
	}
	assert.Equal(t, 4, total)
	assert.Len(t, s.State().Shifts, 5)

	s.GoToNextWeek()
	b = s.Board()
	require.Len(t, b.Rows, 2)
	assert.Len(t, b.Rows[0].Days[week.Tuesday], 1)
}

func TestEligibleEmployees(t *testing.T) {
	s := newSeededStore(t)

	eligible, excluded := s.EligibleEmployees(at(18, 14), at(18, 21))
	assert.Len(t, eligible, 2)
	require.Len(t, excluded, 1)
	assert.Equal(t, minor.ID, excluded[0].Employee.ID)
}

func TestMutationsRequireInitialization(t *testing.T) {
	s := New(loaderFunc(func(context.Context) (*fixture.Fixture, error) { return nil, errors.New("unused") }),
		WithInitialState(State{Shifts: []domain.Shift{makeShift("s1", kitchen, at(17, 8), 6, nil)}}))

	_, err := s.AssignEmployee("s1", alice)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.ErrorIs(t, s.PurgeShifts(), domain.ErrNotInitialized)
	assert.Len(t, s.State().Shifts, 1)
}

func TestSubscribe(t *testing.T) {
	s := newSeededStore(t)

	var events []domain.Event
	unsubscribe := s.Subscribe(func(ev domain.Event) {
		events = append(events, ev)
	})

	require.NoError(t, s.SwapShifts("s1", "s2"))
	_, err := s.AssignEmployee("missing", alice)
	require.Error(t, err)
	s.GoToNextWeek()

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventShiftsSwapped, events[0].Type)
	assert.Equal(t, []string{"s1", "s2"}, events[0].ShiftIDs)
	assert.Equal(t, bob.ID, candidateEmployeeID(events[0].Shifts[0]))
	assert.Equal(t, domain.EventWeekChanged, events[1].Type)
	assert.Equal(t, at(26, 12), events[1].ReferenceDate)

	unsubscribe()
	require.NoError(t, s.PurgeShifts())
	assert.Len(t, events, 2)
}

func TestState_IsACopy(t *testing.T) {
	s := newSeededStore(t)

	st := s.State()
	st.Shifts[0].Candidate.Employee.Username = "mallory"
	st.Shifts = st.Shifts[:1]

	assert.Equal(t, "alice", mustShift(t, s, "s1").Candidate.Employee.Username)
	assert.Len(t, s.State().Shifts, 4)
}

func TestAutoFill_OnlyTouchesReferenceWeek(t *testing.T) {
	s := newSeededStore(t)

	nextWeek, err := s.AddShift(NewShift{Department: bar, Date: at(25, 0), StartTime: "08:00", EndTime: "12:00"})
	require.NoError(t, err)

	var events []domain.Event
	s.Subscribe(func(ev domain.Event) { events = append(events, ev) })

	params := scheduler.DefaultParameters()
	params.Seed = 7
	filled, err := s.AutoFill(params)
	require.NoError(t, err)

	require.Len(t, filled, 1)
	assert.Equal(t, "s3", filled[0].ID)
	assert.Equal(t, minor.ID, candidateEmployeeID(filled[0]))
	assert.Equal(t, minor.ID, candidateEmployeeID(mustShift(t, s, "s3")))
	assert.Nil(t, mustShift(t, s, nextWeek.ID).Candidate)
	assert.Equal(t, alice.ID, candidateEmployeeID(mustShift(t, s, "s1")))

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventShiftsAutoFilled, events[0].Type)
	assert.Equal(t, []string{"s3"}, events[0].ShiftIDs)
}

func TestAutoFill_InvalidParametersKeepState(t *testing.T) {
	s := newSeededStore(t)
	before := s.State()

	_, err := s.AutoFill(scheduler.Parameters{})
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
	assert.Equal(t, before, s.State())
}

func TestState_CopiesEmployeePayload(t *testing.T) {
	state := seededState()
	withCompany := alice
	withCompany.Company = json.RawMessage(`{"id":1}`)
	state.Employees[0] = withCompany
	state.Shifts[0].Candidate.Employee = withCompany
	s := newSeededStore(t, WithInitialState(state))

	st := s.State()
	st.Employees[0].Company[6] = '9'
	st.Shifts[0].Candidate.Employee.Company[6] = '9'

	fresh := s.State()
	assert.JSONEq(t, `{"id":1}`, string(fresh.Employees[0].Company))
	assert.JSONEq(t, `{"id":1}`, string(fresh.Shifts[0].Candidate.Employee.Company))
}
