package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/fixture"
)

type loaderFunc func(ctx context.Context) (*fixture.Fixture, error)

func (f loaderFunc) Load(ctx context.Context) (*fixture.Fixture, error) {
	return f(ctx)
}

var (
	kitchen = domain.BranchWorkingArea{ID: 1, WorkingArea: domain.WorkingArea{ID: 10, Name: "Kitchen"}}
	bar     = domain.BranchWorkingArea{ID: 2, WorkingArea: domain.WorkingArea{ID: 20, Name: "Bar"}}

	alice = domain.Employee{ID: "e-alice", Username: "alice", Email: "alice@example.com"}
	bob   = domain.Employee{ID: "e-bob", Username: "bob", Email: "bob@example.com"}
	minor = domain.Employee{ID: "e-minor", Username: "minnie", Email: "minnie@example.com", IsUnderage: true}

	inventory = domain.Tag{ID: 5, Value: "Inventory", Status: true}
	training  = domain.Tag{ID: 6, Value: "Training", Status: true}

	anchor = time.Date(2025, time.November, 17, 0, 0, 0, 0, time.UTC)
)

func at(day, hour int) time.Time {
	return time.Date(2025, time.November, day, hour, 0, 0, 0, time.UTC)
}

func makeShift(id string, dept domain.BranchWorkingArea, start time.Time, hours int, emp *domain.Employee) domain.Shift {
	s := domain.Shift{
		ID:                   id,
		Type:                 "shift",
		StartTZ:              start,
		EndTZ:                start.Add(time.Duration(hours) * time.Hour),
		WorkingTimeInMinutes: hours * 60,
		Department:           dept,
		Tags:                 []domain.ShiftTag{},
	}
	if emp != nil {
		s.Candidate = &domain.Candidate{ID: "c-" + id, Employee: *emp}
	}
	return s
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func seededState() State {
	return State{
		Shifts: []domain.Shift{
			makeShift("s1", kitchen, at(17, 8), 6, &alice),
			makeShift("s2", kitchen, at(17, 14), 6, &bob),
			makeShift("s3", bar, at(18, 8), 6, nil),
			makeShift("s4", bar, at(19, 21), 2, &bob),
		},
		Employees:     []domain.Employee{alice, bob, minor},
		Departments:   []domain.BranchWorkingArea{bar, kitchen},
		Tags:          []domain.Tag{inventory, training},
		ReferenceDate: at(19, 12),
		Initialized:   true,
	}
}

func newSeededStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	base := []Option{
		WithInitialState(seededState()),
		WithAnchor(anchor),
		WithLocation(time.UTC),
		WithIDGenerator(sequentialIDs()),
	}
	return New(loaderFunc(func(context.Context) (*fixture.Fixture, error) {
		return nil, fmt.Errorf("no loader in this test")
	}), append(base, opts...)...)
}

func mustShift(t *testing.T, s *Store, id string) domain.Shift {
	t.Helper()
	sh, err := s.Shift(id)
	require.NoError(t, err)
	return sh
}

func candidateEmployeeID(sh domain.Shift) string {
	if sh.Candidate == nil {
		return ""
	}
	return sh.Candidate.Employee.ID
}
