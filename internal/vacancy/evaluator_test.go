package vacancy_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/vacancy"
)

type fakeRequirementSource struct {
	byDay func(dayOfWeek int32) ([]*domain.StaffingRequirement, error)
}

func (f *fakeRequirementSource) GetRequirementsByDay(dayOfWeek int32) ([]*domain.StaffingRequirement, error) {
	return f.byDay(dayOfWeek)
}

type fakeScheduleSource struct {
	forDate func(date time.Time) ([]*domain.ShiftSnapshot, error)
}

func (f *fakeScheduleSource) SnapshotsForDate(date time.Time) ([]*domain.ShiftSnapshot, error) {
	return f.forDate(date)
}

func staticRequirements(reqs ...*domain.StaffingRequirement) *fakeRequirementSource {
	return &fakeRequirementSource{
		byDay: func(int32) ([]*domain.StaffingRequirement, error) {
			return reqs, nil
		},
	}
}

func staticSnapshots(snapshots ...*domain.ShiftSnapshot) *fakeScheduleSource {
	return &fakeScheduleSource{
		forDate: func(time.Time) ([]*domain.ShiftSnapshot, error) {
			return snapshots, nil
		},
	}
}

func TestEvaluateCoversConsecutiveDays(t *testing.T) {
	evaluator := vacancy.NewEvaluator(staticRequirements(), staticSnapshots(), 7)

	from := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC) // 周一的下午
	results := evaluator.Evaluate(from, 0)

	require.Len(t, results, 7)
	for i, day := range results {
		expected := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		assert.Equal(t, expected, day.Date, "第 %d 天的日期不对", i)
		assert.False(t, day.Skipped)
	}
}

func TestEvaluateNoShortageWhenAdequatelyStaffed(t *testing.T) {
	reqs := staticRequirements(&domain.StaffingRequirement{
		ShiftTypeID:    1,
		MinOfficers:    2,
		MinSupervisors: 1,
	})
	snapshots := staticSnapshots(&domain.ShiftSnapshot{
		ShiftTypeID:        1,
		Name:               "Day",
		CurrentOfficers:    2,
		CurrentSupervisors: 1,
	})

	evaluator := vacancy.NewEvaluator(reqs, snapshots, 7)
	results := evaluator.Evaluate(time.Now(), 0)

	for _, day := range results {
		assert.Empty(t, day.Shortages)
	}
}

func TestEvaluateDetectsSupervisorShortfall(t *testing.T) {
	// 警员够了但是主管缺一人
	reqs := staticRequirements(&domain.StaffingRequirement{
		ShiftTypeID:    1,
		MinOfficers:    8,
		MinSupervisors: 1,
	})
	snapshots := staticSnapshots(&domain.ShiftSnapshot{
		ShiftTypeID:        1,
		Name:               "Day",
		StartTime:          "07:00:00",
		EndTime:            "15:00:00",
		CurrentOfficers:    8,
		CurrentSupervisors: 0,
	})

	evaluator := vacancy.NewEvaluator(reqs, snapshots, 1)
	results := evaluator.Evaluate(time.Now(), 0)

	require.Len(t, results, 1)
	require.Len(t, results[0].Shortages, 1)

	shortage := results[0].Shortages[0]
	assert.True(t, shortage.SupervisorsUnderstaffed)
	assert.False(t, shortage.OfficersUnderstaffed)
	assert.Equal(t, "1 Supervisor(s)", shortage.PositionShortfall)
	assert.Equal(t, int32(8), shortage.CurrentStaffing)
	assert.Equal(t, int32(9), shortage.MinimumRequired)
}

func TestEvaluateDetectsCombinedShortfall(t *testing.T) {
	reqs := staticRequirements(&domain.StaffingRequirement{
		ShiftTypeID:    1,
		MinOfficers:    8,
		MinSupervisors: 2,
	})
	snapshots := staticSnapshots(&domain.ShiftSnapshot{
		ShiftTypeID:        1,
		Name:               "Night",
		CurrentOfficers:    7,
		CurrentSupervisors: 0,
	})

	evaluator := vacancy.NewEvaluator(reqs, snapshots, 1)
	results := evaluator.Evaluate(time.Now(), 0)

	require.Len(t, results[0].Shortages, 1)
	assert.Equal(t, "2 Supervisor(s), 1 Officer(s)", results[0].Shortages[0].PositionShortfall)
}

func TestEvaluateFallsBackToDefaultRequirement(t *testing.T) {
	// 数据库中没有任何人数配置时使用缺省的 1 主管 + 8 警员
	snapshots := staticSnapshots(&domain.ShiftSnapshot{
		ShiftTypeID:        3,
		Name:               "Evening",
		CurrentOfficers:    5,
		CurrentSupervisors: 1,
	})

	evaluator := vacancy.NewEvaluator(staticRequirements(), snapshots, 1)
	results := evaluator.Evaluate(time.Now(), 0)

	require.Len(t, results[0].Shortages, 1)
	shortage := results[0].Shortages[0]
	assert.Equal(t, domain.DefaultMinOfficers, shortage.MinOfficers)
	assert.Equal(t, domain.DefaultMinSupervisors, shortage.MinSupervisors)
	assert.Equal(t, "3 Officer(s)", shortage.PositionShortfall)
}

func TestEvaluateSkipsDayOnReadFailure(t *testing.T) {
	// 第二天的配置读取失败，其余天数照常评估
	day := 0
	reqs := &fakeRequirementSource{
		byDay: func(int32) ([]*domain.StaffingRequirement, error) {
			day++
			if day == 2 {
				return nil, errors.New("connection reset")
			}
			return nil, nil
		},
	}

	evaluator := vacancy.NewEvaluator(reqs, staticSnapshots(), 3)
	results := evaluator.Evaluate(time.Now(), 0)

	require.Len(t, results, 3)
	assert.False(t, results[0].Skipped)
	assert.True(t, results[1].Skipped)
	assert.Equal(t, "connection reset", results[1].SkipReason)
	assert.False(t, results[2].Skipped)
}

func TestEvaluateFiltersByShiftType(t *testing.T) {
	snapshots := staticSnapshots(
		&domain.ShiftSnapshot{ShiftTypeID: 1, Name: "Day"},
		&domain.ShiftSnapshot{ShiftTypeID: 2, Name: "Night"},
	)

	evaluator := vacancy.NewEvaluator(staticRequirements(), snapshots, 1)
	results := evaluator.Evaluate(time.Now(), 2)

	require.Len(t, results[0].Shortages, 1)
	assert.Equal(t, int64(2), results[0].Shortages[0].ShiftTypeID)
	assert.Equal(t, "Night", results[0].Shortages[0].ShiftName)
}
