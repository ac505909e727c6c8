package vacancy_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/vacancy"
)

type fakeOfficerSource struct {
	byRole func(role domain.Role) ([]*domain.User, error)
}

func (f *fakeOfficerSource) GetActiveUsersByRole(role domain.Role) ([]*domain.User, error) {
	return f.byRole(role)
}

type fakeNotificationStore struct {
	insert func(batch []*domain.Notification) error
}

func (f *fakeNotificationStore) InsertNotifications(batch []*domain.Notification) error {
	return f.insert(batch)
}

type fakeEventPublisher struct {
	published []*domain.Notification
}

func (f *fakeEventPublisher) PublishNotification(n *domain.Notification) {
	f.published = append(f.published, n)
}

func makeOfficers(n int) []*domain.User {
	officers := make([]*domain.User, 0, n)
	for i := 1; i <= n; i++ {
		officers = append(officers, &domain.User{
			ID:       int64(i),
			Username: fmt.Sprintf("officer%d", i),
			Role:     domain.RoleOfficer,
			IsActive: true,
		})
	}
	return officers
}

func collectingStore(batches *[][]*domain.Notification) *fakeNotificationStore {
	return &fakeNotificationStore{
		insert: func(batch []*domain.Notification) error {
			copied := make([]*domain.Notification, len(batch))
			copy(copied, batch)
			*batches = append(*batches, copied)
			return nil
		},
	}
}

func TestNotifyOneNotificationPerOfficer(t *testing.T) {
	officers := &fakeOfficerSource{
		byRole: func(role domain.Role) ([]*domain.User, error) {
			assert.Equal(t, domain.RoleOfficer, role)
			return makeOfficers(3), nil
		},
	}
	var batches [][]*domain.Notification
	fanout := vacancy.NewFanout(officers, collectingStore(&batches), nil, 10)

	alert := &domain.VacancyAlert{ID: 42}
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	report, err := fanout.Notify(alert, "Night", date)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Officers)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 1, report.Batches)

	require.Len(t, batches, 1)
	seen := map[int64]bool{}
	for _, n := range batches[0] {
		seen[n.UserID] = true
		assert.Equal(t, "New Vacancy Alert", n.Title)
		assert.Equal(t, "New shift vacancy for Night on March 14, 2026", n.Message)
		assert.Equal(t, domain.NotificationTypeVacancy, n.Type)
		require.NotNil(t, n.RelatedVacancyID)
		assert.Equal(t, int64(42), *n.RelatedVacancyID)
	}
	assert.Len(t, seen, 3)
}

func TestNotifyUnknownShiftFallback(t *testing.T) {
	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return makeOfficers(1), nil
		},
	}
	var batches [][]*domain.Notification
	fanout := vacancy.NewFanout(officers, collectingStore(&batches), nil, 10)

	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := fanout.Notify(&domain.VacancyAlert{ID: 1}, "", date)

	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "New shift vacancy for Unknown Shift on January 2, 2026", batches[0][0].Message)
}

func TestNotifySplitsIntoBatches(t *testing.T) {
	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return makeOfficers(25), nil
		},
	}
	var batches [][]*domain.Notification
	fanout := vacancy.NewFanout(officers, collectingStore(&batches), nil, 10)

	report, err := fanout.Notify(&domain.VacancyAlert{ID: 1}, "Day", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Batches)
	assert.Equal(t, 25, report.Created)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 10)
	assert.Len(t, batches[2], 5)
}

func TestNotifyContinuesPastFailedBatch(t *testing.T) {
	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return makeOfficers(25), nil
		},
	}
	attempt := 0
	store := &fakeNotificationStore{
		insert: func(batch []*domain.Notification) error {
			attempt++
			if attempt == 2 {
				return errors.New("deadlock detected")
			}
			return nil
		},
	}
	fanout := vacancy.NewFanout(officers, store, nil, 10)

	report, err := fanout.Notify(&domain.VacancyAlert{ID: 1}, "Day", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 3, attempt, "失败的批次不应阻止后续批次")
	assert.Equal(t, 3, report.Batches)
	assert.Equal(t, []int{2}, report.FailedBatches)
	assert.Equal(t, 15, report.Created)
}

func TestNotifyAudienceFailureIsFatal(t *testing.T) {
	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	inserted := false
	store := &fakeNotificationStore{
		insert: func([]*domain.Notification) error {
			inserted = true
			return nil
		},
	}
	fanout := vacancy.NewFanout(officers, store, nil, 10)

	report, err := fanout.Notify(&domain.VacancyAlert{ID: 1}, "Day", time.Now())

	require.Error(t, err)
	assert.Nil(t, report)
	assert.False(t, inserted)
}

func TestNotifyPublishesOnlySuccessfulBatches(t *testing.T) {
	officers := &fakeOfficerSource{
		byRole: func(domain.Role) ([]*domain.User, error) {
			return makeOfficers(15), nil
		},
	}
	attempt := 0
	store := &fakeNotificationStore{
		insert: func([]*domain.Notification) error {
			attempt++
			if attempt == 1 {
				return errors.New("deadlock detected")
			}
			return nil
		},
	}
	events := &fakeEventPublisher{}
	fanout := vacancy.NewFanout(officers, store, events, 10)

	report, err := fanout.Notify(&domain.VacancyAlert{ID: 1}, "Day", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 5, report.Created)
	assert.Len(t, events.published, 5)
}
