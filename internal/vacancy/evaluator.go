package vacancy

import (
	"log/slog"
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/metrics"
	"github.com/watchdesk/staff-scheduler/backend/internal/utils"
)

const DefaultHorizonDays = 7

type RequirementSource interface {
	GetRequirementsByDay(dayOfWeek int32) ([]*domain.StaffingRequirement, error)
}

type ScheduleSource interface {
	SnapshotsForDate(date time.Time) ([]*domain.ShiftSnapshot, error)
}

// Evaluator 对未来若干天逐天比较实际在岗人数和最低人数要求
type Evaluator struct {
	requirements RequirementSource
	schedule     ScheduleSource
	horizonDays  int
}

func NewEvaluator(requirements RequirementSource, schedule ScheduleSource, horizonDays int) *Evaluator {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	return &Evaluator{
		requirements: requirements,
		schedule:     schedule,
		horizonDays:  horizonDays,
	}
}

// Evaluate 从 from 当天起连续评估 horizonDays 天。shiftTypeID 为 0 时评估所有班次。
// 单天的读取失败只会让这一天被跳过，不影响其余天数。
func (e *Evaluator) Evaluate(from time.Time, shiftTypeID int64) []domain.DayResult {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	results := make([]domain.DayResult, 0, e.horizonDays)
	for i := 0; i < e.horizonDays; i++ {
		results = append(results, e.evaluateDay(start.AddDate(0, 0, i), shiftTypeID))
	}

	return results
}

func (e *Evaluator) evaluateDay(date time.Time, shiftTypeID int64) domain.DayResult {
	reqs, err := e.requirements.GetRequirementsByDay(int32(date.Weekday()))
	if err != nil {
		slog.Error("获取最低人数配置失败，跳过该天", "date", date.Format("2006-01-02"), "error", err)
		metrics.EvaluationDaysSkipped.Inc()
		return domain.DayResult{Date: date, Skipped: true, SkipReason: err.Error()}
	}

	reqByShift := make(map[int64]*domain.StaffingRequirement, len(reqs))
	for _, req := range reqs {
		reqByShift[req.ShiftTypeID] = req
	}

	snapshots, err := e.schedule.SnapshotsForDate(date)
	if err != nil {
		slog.Error("获取排班快照失败，跳过该天", "date", date.Format("2006-01-02"), "error", err)
		metrics.EvaluationDaysSkipped.Inc()
		return domain.DayResult{Date: date, Skipped: true, SkipReason: err.Error()}
	}

	shortages := make([]domain.Shortage, 0)
	for _, snapshot := range snapshots {
		if shiftTypeID != 0 && snapshot.ShiftTypeID != shiftTypeID {
			continue
		}

		req := reqByShift[snapshot.ShiftTypeID]
		if req == nil {
			req = domain.DefaultRequirement(int32(date.Weekday()), snapshot.ShiftTypeID)
		}

		supervisorsUnderstaffed := snapshot.CurrentSupervisors < req.MinSupervisors
		officersUnderstaffed := snapshot.CurrentOfficers < req.MinOfficers
		if !supervisorsUnderstaffed && !officersUnderstaffed {
			continue
		}

		var supervisorShortfall, officerShortfall int32
		if supervisorsUnderstaffed {
			supervisorShortfall = req.MinSupervisors - snapshot.CurrentSupervisors
		}
		if officersUnderstaffed {
			officerShortfall = req.MinOfficers - snapshot.CurrentOfficers
		}

		shortages = append(shortages, domain.Shortage{
			ShiftTypeID:             snapshot.ShiftTypeID,
			ShiftName:               snapshot.Name,
			Date:                    date,
			StartTime:               snapshot.StartTime,
			EndTime:                 snapshot.EndTime,
			CurrentOfficers:         snapshot.CurrentOfficers,
			CurrentSupervisors:      snapshot.CurrentSupervisors,
			MinOfficers:             req.MinOfficers,
			MinSupervisors:          req.MinSupervisors,
			CurrentStaffing:         snapshot.CurrentOfficers + snapshot.CurrentSupervisors,
			MinimumRequired:         req.MinOfficers + req.MinSupervisors,
			OfficersUnderstaffed:    officersUnderstaffed,
			SupervisorsUnderstaffed: supervisorsUnderstaffed,
			PositionShortfall:       utils.FormatShortfall(supervisorShortfall, officerShortfall),
			Roster:                  snapshot.Roster,
		})
		metrics.ShortagesDetected.Inc()
	}

	return domain.DayResult{Date: date, Shortages: shortages}
}
