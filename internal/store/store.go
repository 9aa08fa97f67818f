// Package store 持有排班看板的全部内存状态，是修改班次的唯一入口
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/fixture"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/metrics"
)

type FixtureLoader interface {
	Load(ctx context.Context) (*fixture.Fixture, error)
}

type State struct {
	Shifts        []domain.Shift             `json:"shifts"`
	Employees     []domain.Employee          `json:"employees"`
	Departments   []domain.BranchWorkingArea `json:"departments"`
	Tags          []domain.Tag               `json:"tags"`
	ReferenceDate time.Time                  `json:"referenceDate"`
	Loading       bool                       `json:"loading"`
	Error         string                     `json:"error"`
	Initialized   bool                       `json:"initialized"`
}

func (s State) clone() State {
	c := s
	c.Shifts = cloneShifts(s.Shifts)
	if s.Employees != nil {
		c.Employees = make([]domain.Employee, len(s.Employees))
		for i, e := range s.Employees {
			c.Employees[i] = e.Clone()
		}
	}
	c.Departments = append([]domain.BranchWorkingArea(nil), s.Departments...)
	c.Tags = append([]domain.Tag(nil), s.Tags...)
	if c.Shifts == nil {
		c.Shifts = []domain.Shift{}
	}
	if c.Employees == nil {
		c.Employees = []domain.Employee{}
	}
	if c.Departments == nil {
		c.Departments = []domain.BranchWorkingArea{}
	}
	if c.Tags == nil {
		c.Tags = []domain.Tag{}
	}
	return c
}

func cloneShifts(shifts []domain.Shift) []domain.Shift {
	if shifts == nil {
		return nil
	}
	out := make([]domain.Shift, len(shifts))
	for i, s := range shifts {
		out[i] = s.Clone()
	}
	return out
}

type Option func(*Store)

// WithInitialState 注入初始状态（例如测试或预先加载好的数据）
func WithInitialState(state State) Option {
	return func(s *Store) {
		s.state = state.clone()
	}
}

// WithAnchor 设置"本周"所指向的日期，零值表示使用当前时间
func WithAnchor(anchor time.Time) Option {
	return func(s *Store) {
		s.anchor = anchor
	}
}

func WithTemplateStartHour(hour int) Option {
	return func(s *Store) {
		s.templateStartHour = hour
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		s.location = loc
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m metrics.Recorder) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

type Store struct {
	mu         sync.RWMutex
	state      State
	generation uint64 // 每次开始加载时递增，用于丢弃过期的加载结果

	loader            FixtureLoader
	anchor            time.Time
	templateStartHour int
	location          *time.Location
	newID             func() string
	now               func() time.Time
	logger            *slog.Logger
	metrics           metrics.Recorder

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(domain.Event)
}

func New(loader FixtureLoader, opts ...Option) *Store {
	s := &Store{
		loader:            loader,
		templateStartHour: 8,
		location:          time.Local,
		newID:             uuid.NewString,
		now:               time.Now,
		logger:            slog.Default(),
		metrics:           metrics.Nop{},
		subscribers:       make(map[int]func(domain.Event)),
	}
	s.state = State{}.clone()

	for _, opt := range opts {
		opt(s)
	}

	if s.state.ReferenceDate.IsZero() {
		s.state.ReferenceDate = s.anchorDate()
	}
	return s
}

func (s *Store) anchorDate() time.Time {
	if s.anchor.IsZero() {
		return s.now().In(s.location)
	}
	return s.anchor
}

func (s *Store) Location() *time.Location {
	return s.location
}

// State 返回当前状态的深拷贝
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe 注册一个监听器，在每次变更完成后被同步调用；返回的函数用于取消订阅
func (s *Store) Subscribe(fn func(domain.Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notify(ev domain.Event) {
	s.subMu.Lock()
	listeners := make([]func(domain.Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// mutate 在一个临界区内执行 fn；fn 返回错误时状态保持不变
func (s *Store) mutate(op string, fn func(st *State) (domain.Event, error)) error {
	s.mu.Lock()
	if !s.state.Initialized {
		s.mu.Unlock()
		s.metrics.RecordRejected(op)
		return domain.ErrNotInitialized
	}

	ev, err := fn(&s.state)
	if err != nil {
		s.mu.Unlock()
		s.metrics.RecordRejected(op)
		s.logger.Debug("排班变更被拒绝", "op", op, "error", err)
		return err
	}
	ev.ReferenceDate = s.state.ReferenceDate
	ev.At = s.now()
	count := len(s.state.Shifts)
	s.mu.Unlock()

	s.metrics.RecordMutation(op)
	s.metrics.SetShiftCount(count)
	s.notify(ev)
	return nil
}

func indexOf(shifts []domain.Shift, id string) int {
	for i := range shifts {
		if shifts[i].ID == id {
			return i
		}
	}
	return -1
}

// idSource 返回一个不会与 used 中已有 ID 冲突的生成器
func (s *Store) idSource(shifts []domain.Shift) func() string {
	used := make(map[string]bool, len(shifts))
	for _, sh := range shifts {
		used[sh.ID] = true
	}
	return func() string {
		for {
			id := s.newID()
			if !used[id] {
				used[id] = true
				return id
			}
		}
	}
}

func eventFor(t domain.EventType, shifts ...domain.Shift) domain.Event {
	ev := domain.Event{
		Type:     t,
		ShiftIDs: make([]string, 0, len(shifts)),
		Shifts:   make([]domain.Shift, 0, len(shifts)),
	}
	for _, sh := range shifts {
		ev.ShiftIDs = append(ev.ShiftIDs, sh.ID)
		ev.Shifts = append(ev.Shifts, sh.Clone())
	}
	return ev
}
