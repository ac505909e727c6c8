package vacancy

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/metrics"
)

const (
	NotificationTitle = "New Vacancy Alert"
	DefaultShiftName  = "Unknown Shift"
	DefaultBatchSize  = 10
)

type OfficerSource interface {
	GetActiveUsersByRole(role domain.Role) ([]*domain.User, error)
}

type NotificationStore interface {
	InsertNotifications(notifications []*domain.Notification) error
}

// EventPublisher 是插入成功后的实时推送触发器（redis 发布），只尽力而为
type EventPublisher interface {
	PublishNotification(n *domain.Notification)
}

type Fanout struct {
	officers  OfficerSource
	store     NotificationStore
	events    EventPublisher
	batchSize int
}

// NewFanout 的 events 允许为 nil（没有实时推送时）
func NewFanout(officers OfficerSource, store NotificationStore, events EventPublisher, batchSize int) *Fanout {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Fanout{
		officers:  officers,
		store:     store,
		events:    events,
		batchSize: batchSize,
	}
}

type FanoutReport struct {
	Officers      int   `json:"officers"`
	Batches       int   `json:"batches"`
	FailedBatches []int `json:"failedBatches,omitempty"`
	Created       int   `json:"created"`
}

// Notify 给所有在职警员各写一条通知。受众读取失败时整个 fan-out 失败（已创建的
// 警报不回滚）；单个批次失败只记录日志，剩下的批次照常尝试。
func (f *Fanout) Notify(alert *domain.VacancyAlert, shiftName string, date time.Time) (*FanoutReport, error) {
	if shiftName == "" {
		shiftName = DefaultShiftName
	}

	officers, err := f.officers.GetActiveUsersByRole(domain.RoleOfficer)
	if err != nil {
		return nil, fmt.Errorf("解析通知受众失败: %w", err)
	}

	message := fmt.Sprintf("New shift vacancy for %s on %s", shiftName, date.Format("January 2, 2006"))

	notifications := make([]*domain.Notification, 0, len(officers))
	for _, officer := range officers {
		alertID := alert.ID
		notifications = append(notifications, &domain.Notification{
			UserID:           officer.ID,
			Title:            NotificationTitle,
			Message:          message,
			Type:             domain.NotificationTypeVacancy,
			RelatedVacancyID: &alertID,
		})
	}

	report := &FanoutReport{Officers: len(officers)}

	for start := 0; start < len(notifications); start += f.batchSize {
		end := start + f.batchSize
		if end > len(notifications) {
			end = len(notifications)
		}
		batch := notifications[start:end]
		report.Batches++

		if err := f.store.InsertNotifications(batch); err != nil {
			slog.Error("通知批次写入失败", "alert_id", alert.ID, "batch", report.Batches, "size", len(batch), "error", err)
			report.FailedBatches = append(report.FailedBatches, report.Batches)
			metrics.NotificationBatches.WithLabelValues("failed").Inc()
			continue
		}

		report.Created += len(batch)
		metrics.NotificationBatches.WithLabelValues("ok").Inc()
		metrics.NotificationsCreated.Add(float64(len(batch)))

		if f.events != nil {
			for _, n := range batch {
				f.events.PublishNotification(n)
			}
		}
	}

	return report, nil
}
