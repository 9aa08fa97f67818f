package fixture

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cet = time.FixedZone("CET", 3600)

func loadTestdata(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/shifts.json")
	require.NoError(t, err)
	return data
}

func TestParse_Shifts(t *testing.T) {
	fx, err := Parse(loadTestdata(t), cet)
	require.NoError(t, err)
	require.Len(t, fx.Shifts, 4)

	first := fx.Shifts[0]
	assert.Equal(t, "shift-1", first.ID)
	assert.True(t, first.StartTZ.Equal(time.Date(2025, time.November, 17, 8, 0, 0, 0, cet)))
	assert.Equal(t, 360, first.WorkingTimeInMinutes)
	assert.Equal(t, "Kitchen", first.Department.Name())
	require.NotNil(t, first.Candidate)
	assert.Equal(t, "anna", first.Candidate.Employee.Username)
	require.Len(t, first.Tags, 1)
	assert.Equal(t, "Inventory", first.Tags[0].Tag.Value)

	// 不带时区的时间按配置的时区解释
	second := fx.Shifts[1]
	assert.Equal(t, time.Date(2025, time.November, 18, 14, 0, 0, 0, cet), second.StartTZ)
	assert.True(t, second.Candidate.Employee.IsUnderage)

	assert.Nil(t, fx.Shifts[3].Candidate)
	assert.True(t, fx.ReferenceDate.Equal(first.StartTZ))
}

func TestParse_Extraction(t *testing.T) {
	fx, err := Parse(loadTestdata(t), cet)
	require.NoError(t, err)

	ids := []string{}
	for _, e := range fx.Employees {
		ids = append(ids, e.ID)
	}
	// 用户名为空的员工被丢弃，ID 区分大小写
	assert.Equal(t, []string{"emp-1", "emp-3", "emp-2", "EMP-1"}, ids)

	require.Len(t, fx.Departments, 2)
	assert.Equal(t, "Bar", fx.Departments[0].Name())
	assert.Equal(t, "Kitchen", fx.Departments[1].Name())

	require.Len(t, fx.Tags, 2)
	assert.Equal(t, int64(5), fx.Tags[0].ID)
	assert.Equal(t, "Training", fx.Tags[1].Value)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"not": "an array"}`), cet)
	assert.Error(t, err)

	_, err = Parse([]byte(`[{"id": "a", "start_tz": "yesterday", "end_tz": "today"}]`), cet)
	assert.Error(t, err)

	_, err = Parse([]byte(`[
		{"id": "a", "start_tz": "2025-11-17T08:00:00Z", "end_tz": "2025-11-17T09:00:00Z"},
		{"id": "a", "start_tz": "2025-11-17T08:00:00Z", "end_tz": "2025-11-17T09:00:00Z"}
	]`), cet)
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	fx, err := Parse([]byte(`[]`), cet)
	require.NoError(t, err)
	assert.Empty(t, fx.Shifts)
	assert.True(t, fx.ReferenceDate.IsZero())
}

func TestEncode_PreservesOpaqueFields(t *testing.T) {
	fx, err := Parse(loadTestdata(t), cet)
	require.NoError(t, err)

	data, err := Encode(fx.Shifts)
	require.NoError(t, err)

	again, err := Parse(data, cet)
	require.NoError(t, err)
	require.Len(t, again.Shifts, len(fx.Shifts))

	first := again.Shifts[0]
	assert.JSONEq(t, `{"id": 9, "code": "CC-9"}`, string(first.CompanyCostCentre))
	assert.JSONEq(t, `[1, 2]`, string(first.MultiChecks))
	assert.JSONEq(t, `null`, string(first.CompanyEvent))
	assert.JSONEq(t, `{"id": 3}`, string(first.Candidate.Employee.Company))
	assert.True(t, first.StartTZ.Equal(fx.Shifts[0].StartTZ))
	assert.Equal(t, fx.Shifts[0].Tags, first.Tags)
	assert.Nil(t, again.Shifts[3].Candidate)
}

func TestParseTimestamp_ConvertsOffsetToLocation(t *testing.T) {
	got, err := ParseTimestamp("2025-11-23T20:00:00-05:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2025, time.November, 24, 1, 0, 0, 0, time.UTC), got)

	local, err := ParseTimestamp("2025-11-18 14:00:00", cet)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.November, 18, 14, 0, 0, 0, cet), local)
}
