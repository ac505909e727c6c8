package vacancy

import (
	"log/slog"
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/metrics"
)

type AlertStore interface {
	CreateVacancyAlert(alert *domain.VacancyAlert) error
}

// Pipeline 把评估、落库和 fan-out 串成完整流程：
// Evaluator -> AlertStore -> Fanout，数据只朝一个方向流动
type Pipeline struct {
	evaluator *Evaluator
	alerts    AlertStore
	fanout    *Fanout
}

func NewPipeline(evaluator *Evaluator, alerts AlertStore, fanout *Fanout) *Pipeline {
	return &Pipeline{
		evaluator: evaluator,
		alerts:    alerts,
		fanout:    fanout,
	}
}

type RunSummary struct {
	Days                 []domain.DayResult `json:"days"`
	DaysSkipped          int                `json:"daysSkipped"`
	Shortages            int                `json:"shortages"`
	AlertsCreated        int                `json:"alertsCreated"`
	AlertsFailed         int                `json:"alertsFailed"`
	NotificationsCreated int                `json:"notificationsCreated"`
}

// CreateAlertFromShortage 把缺员记录原样写成一条 open 状态的警报。
// 插入失败时直接返回错误，调用方不再为这条缺员做 fan-out。
func (p *Pipeline) CreateAlertFromShortage(shortage *domain.Shortage) (*domain.VacancyAlert, error) {
	alert := &domain.VacancyAlert{
		ShiftTypeID:     shortage.ShiftTypeID,
		Date:            shortage.Date,
		CurrentStaffing: shortage.CurrentStaffing,
		MinimumRequired: shortage.MinimumRequired,
	}

	if err := p.alerts.CreateVacancyAlert(alert); err != nil {
		return nil, err
	}

	metrics.AlertsCreated.Inc()
	return alert, nil
}

// Run 评估未来 7 天并为每条缺员创建警报加 fan-out。
// 警报和通知之间没有事务：受众读取失败时会留下一条没有任何通知的警报，这是
// 有意保留的行为。
func (p *Pipeline) Run(from time.Time, shiftTypeID int64) *RunSummary {
	metrics.EvaluationRuns.Inc()

	summary := &RunSummary{
		Days: p.evaluator.Evaluate(from, shiftTypeID),
	}

	for _, day := range summary.Days {
		if day.Skipped {
			summary.DaysSkipped++
			continue
		}

		for i := range day.Shortages {
			shortage := &day.Shortages[i]
			summary.Shortages++

			alert, err := p.CreateAlertFromShortage(shortage)
			if err != nil {
				slog.Error("创建空缺警报失败", "shift_type_id", shortage.ShiftTypeID, "date", shortage.Date.Format("2006-01-02"), "error", err)
				summary.AlertsFailed++
				continue
			}
			summary.AlertsCreated++

			report, err := p.fanout.Notify(alert, shortage.ShiftName, shortage.Date)
			if err != nil {
				slog.Error("通知 fan-out 失败，警报已创建但没有任何通知", "alert_id", alert.ID, "error", err)
				continue
			}

			summary.NotificationsCreated += report.Created
			if len(report.FailedBatches) > 0 {
				slog.Warn("部分通知批次写入失败", "alert_id", alert.ID, "failed_batches", report.FailedBatches, "created", report.Created)
			}
		}
	}

	return summary
}
