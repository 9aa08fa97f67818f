package domain

import "time"

type EventType string

const (
	EventShiftsLoaded       EventType = "shifts_loaded"
	EventStoreInitialized   EventType = "store_initialized"
	EventShiftsPurged       EventType = "shifts_purged"
	EventShiftAdded         EventType = "shift_added"
	EventShiftUpdated       EventType = "shift_updated"
	EventShiftTagsUpdated   EventType = "shift_tags_updated"
	EventEmployeeAssigned   EventType = "employee_assigned"
	EventEmployeeUnassigned EventType = "employee_unassigned"
	EventShiftsSwapped      EventType = "shifts_swapped"
	EventShiftMoved         EventType = "shift_moved"
	EventTemplateGenerated  EventType = "template_generated"
	EventWeekChanged        EventType = "week_changed"
	EventShiftsAutoFilled   EventType = "shifts_auto_filled"
)

// Event 描述一次已完成的状态变更，Shifts 为变更后受影响班次的快照
type Event struct {
	Type          EventType `json:"type"`
	ShiftIDs      []string  `json:"shiftIDs"`
	Shifts        []Shift   `json:"shifts"`
	ReferenceDate time.Time `json:"referenceDate"`
	At            time.Time `json:"at"`
}
