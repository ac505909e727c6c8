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

type fakeAlertStore struct {
	create func(alert *domain.VacancyAlert) error
}

func (f *fakeAlertStore) CreateVacancyAlert(alert *domain.VacancyAlert) error {
	return f.create(alert)
}

func understaffedWorld() (*fakeRequirementSource, *fakeScheduleSource) {
	reqs := staticRequirements(&domain.StaffingRequirement{
		ShiftTypeID:    1,
		MinOfficers:    8,
		MinSupervisors: 1,
	})
	snapshots := staticSnapshots(&domain.ShiftSnapshot{
		ShiftTypeID:        1,
		Name:               "Day",
		CurrentOfficers:    6,
		CurrentSupervisors: 1,
	})
	return reqs, snapshots
}

func TestCreateAlertFromShortageEchoesNumbers(t *testing.T) {
	var created *domain.VacancyAlert
	store := &fakeAlertStore{
		create: func(alert *domain.VacancyAlert) error {
			alert.ID = 7
			alert.Status = domain.AlertStatusOpen
			created = alert
			return nil
		},
	}
	pipeline := vacancy.NewPipeline(nil, store, nil)

	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	alert, err := pipeline.CreateAlertFromShortage(&domain.Shortage{
		ShiftTypeID:     3,
		Date:            date,
		CurrentStaffing: 7,
		MinimumRequired: 9,
	})

	require.NoError(t, err)
	require.Same(t, created, alert)
	assert.Equal(t, int64(3), alert.ShiftTypeID)
	assert.Equal(t, date, alert.Date)
	assert.Equal(t, int32(7), alert.CurrentStaffing)
	assert.Equal(t, int32(9), alert.MinimumRequired)
	assert.Equal(t, domain.AlertStatusOpen, alert.Status)
}

func TestRunCreatesAlertAndFansOut(t *testing.T) {
	reqs, snapshots := understaffedWorld()
	evaluator := vacancy.NewEvaluator(reqs, snapshots, 1)

	nextID := int64(0)
	store := &fakeAlertStore{
		create: func(alert *domain.VacancyAlert) error {
			nextID++
			alert.ID = nextID
			alert.Status = domain.AlertStatusOpen
			return nil
		},
	}

	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return makeOfficers(12), nil
		},
	}
	var batches [][]*domain.Notification
	fanout := vacancy.NewFanout(officers, collectingStore(&batches), nil, 10)

	pipeline := vacancy.NewPipeline(evaluator, store, fanout)
	summary := pipeline.Run(time.Now(), 0)

	assert.Equal(t, 1, summary.Shortages)
	assert.Equal(t, 1, summary.AlertsCreated)
	assert.Equal(t, 0, summary.AlertsFailed)
	assert.Equal(t, 12, summary.NotificationsCreated)
	require.Len(t, batches, 2)
	require.NotNil(t, batches[0][0].RelatedVacancyID)
	assert.Equal(t, int64(1), *batches[0][0].RelatedVacancyID)
}

func TestRunSkipsFanoutWhenAlertCreationFails(t *testing.T) {
	reqs, snapshots := understaffedWorld()
	evaluator := vacancy.NewEvaluator(reqs, snapshots, 2)

	attempt := 0
	store := &fakeAlertStore{
		create: func(alert *domain.VacancyAlert) error {
			attempt++
			if attempt == 1 {
				return errors.New("unique violation")
			}
			alert.ID = int64(attempt)
			return nil
		},
	}

	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return makeOfficers(2), nil
		},
	}
	var batches [][]*domain.Notification
	fanout := vacancy.NewFanout(officers, collectingStore(&batches), nil, 10)

	pipeline := vacancy.NewPipeline(evaluator, store, fanout)
	summary := pipeline.Run(time.Now(), 0)

	// 第一天的警报插入失败，第二天照常创建并 fan-out
	assert.Equal(t, 2, summary.Shortages)
	assert.Equal(t, 1, summary.AlertsFailed)
	assert.Equal(t, 1, summary.AlertsCreated)
	assert.Equal(t, 2, summary.NotificationsCreated)
	assert.Len(t, batches, 1)
}

func TestRunAlertSurvivesFanoutFailure(t *testing.T) {
	reqs, snapshots := understaffedWorld()
	evaluator := vacancy.NewEvaluator(reqs, snapshots, 1)

	created := 0
	store := &fakeAlertStore{
		create: func(alert *domain.VacancyAlert) error {
			created++
			alert.ID = int64(created)
			return nil
		},
	}

	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	fanout := vacancy.NewFanout(officers, &fakeNotificationStore{
		insert: func([]*domain.Notification) error { return nil },
	}, nil, 10)

	pipeline := vacancy.NewPipeline(evaluator, store, fanout)
	summary := pipeline.Run(time.Now(), 0)

	// 受众读取失败时警报保留，不回滚
	assert.Equal(t, 1, summary.AlertsCreated)
	assert.Equal(t, 0, summary.NotificationsCreated)
}

func TestRunCountsSkippedDays(t *testing.T) {
	reqs := &fakeRequirementSource{
		byDay: func(int32) ([]*domain.StaffingRequirement, error) {
			return nil, errors.New("timeout")
		},
	}
	evaluator := vacancy.NewEvaluator(reqs, staticSnapshots(), 7)

	pipeline := vacancy.NewPipeline(evaluator, &fakeAlertStore{
		create: func(*domain.VacancyAlert) error { return nil },
	}, vacancy.NewFanout(&fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) { return nil, nil },
	}, &fakeNotificationStore{
		insert: func([]*domain.Notification) error { return nil },
	}, nil, 10))

	summary := pipeline.Run(time.Now(), 0)

	assert.Equal(t, 7, summary.DaysSkipped)
	assert.Equal(t, 0, summary.Shortages)
	assert.Equal(t, 0, summary.AlertsCreated)
}
