package roster

import (
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

type ShiftTypeSource interface {
	GetAllShiftTypes() ([]*domain.ShiftType, error)
}

type MemberSource interface {
	GetScheduledMembers(date time.Time) ([]*domain.ScheduledMember, error)
}

// Reader 把某个日期的排班聚合成每个班次的在岗快照
type Reader struct {
	shiftTypes ShiftTypeSource
	members    MemberSource
}

func NewReader(shiftTypes ShiftTypeSource, members MemberSource) *Reader {
	return &Reader{
		shiftTypes: shiftTypes,
		members:    members,
	}
}

// SnapshotsForDate 按 shift_types 的展示顺序返回快照，没有任何排班的班次也会返回（人数为 0）
func (r *Reader) SnapshotsForDate(date time.Time) ([]*domain.ShiftSnapshot, error) {
	shiftTypes, err := r.shiftTypes.GetAllShiftTypes()
	if err != nil {
		return nil, err
	}

	members, err := r.members.GetScheduledMembers(date)
	if err != nil {
		return nil, err
	}

	byShift := make(map[int64][]*domain.ScheduledMember)
	for _, m := range members {
		byShift[m.ShiftTypeID] = append(byShift[m.ShiftTypeID], m)
	}

	snapshots := make([]*domain.ShiftSnapshot, 0, len(shiftTypes))
	for _, st := range shiftTypes {
		snapshot := &domain.ShiftSnapshot{
			ShiftTypeID: st.ID,
			Date:        date,
			Name:        st.Name,
			StartTime:   st.StartTime,
			EndTime:     st.EndTime,
			Roster:      make([]domain.RosterMember, 0),
		}

		for _, m := range byShift[st.ID] {
			isSupervisor := m.Role == domain.RoleSupervisor
			if isSupervisor {
				snapshot.CurrentSupervisors++
			} else {
				snapshot.CurrentOfficers++
			}
			snapshot.Roster = append(snapshot.Roster, domain.RosterMember{
				UserID:       m.UserID,
				Name:         m.FullName,
				IsSupervisor: isSupervisor,
			})
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}
