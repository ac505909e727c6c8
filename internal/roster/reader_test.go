package roster_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/roster"
)

type fakeShiftTypeSource struct {
	all func() ([]*domain.ShiftType, error)
}

func (f *fakeShiftTypeSource) GetAllShiftTypes() ([]*domain.ShiftType, error) {
	return f.all()
}

type fakeMemberSource struct {
	forDate func(date time.Time) ([]*domain.ScheduledMember, error)
}

func (f *fakeMemberSource) GetScheduledMembers(date time.Time) ([]*domain.ScheduledMember, error) {
	return f.forDate(date)
}

func TestSnapshotsForDateGroupsAndCounts(t *testing.T) {
	shiftTypes := &fakeShiftTypeSource{
		all: func() ([]*domain.ShiftType, error) {
			return []*domain.ShiftType{
				{ID: 1, Name: "Day", StartTime: "07:00:00", EndTime: "15:00:00"},
				{ID: 2, Name: "Night", StartTime: "23:00:00", EndTime: "07:00:00"},
			}, nil
		},
	}
	members := &fakeMemberSource{
		forDate: func(time.Time) ([]*domain.ScheduledMember, error) {
			return []*domain.ScheduledMember{
				{ShiftTypeID: 1, UserID: 1, FullName: "张三", Role: domain.RoleSupervisor},
				{ShiftTypeID: 1, UserID: 2, FullName: "李四", Role: domain.RoleOfficer},
				{ShiftTypeID: 1, UserID: 3, FullName: "王五", Role: domain.RoleOfficer},
			}, nil
		},
	}

	reader := roster.NewReader(shiftTypes, members)
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	snapshots, err := reader.SnapshotsForDate(date)

	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	day := snapshots[0]
	assert.Equal(t, int64(1), day.ShiftTypeID)
	assert.Equal(t, int32(1), day.CurrentSupervisors)
	assert.Equal(t, int32(2), day.CurrentOfficers)
	require.Len(t, day.Roster, 3)
	assert.True(t, day.Roster[0].IsSupervisor)
	assert.Equal(t, "张三", day.Roster[0].Name)

	// 没有排班的班次也要出现在快照里
	night := snapshots[1]
	assert.Equal(t, int32(0), night.CurrentSupervisors)
	assert.Equal(t, int32(0), night.CurrentOfficers)
	assert.Empty(t, night.Roster)
}

func TestSnapshotsForDatePropagatesErrors(t *testing.T) {
	reader := roster.NewReader(&fakeShiftTypeSource{
		all: func() ([]*domain.ShiftType, error) {
			return nil, errors.New("timeout")
		},
	}, &fakeMemberSource{
		forDate: func(time.Time) ([]*domain.ScheduledMember, error) {
			return nil, nil
		},
	})

	_, err := reader.SnapshotsForDate(time.Now())
	assert.Error(t, err)
}
