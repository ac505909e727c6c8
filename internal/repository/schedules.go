package repository

import (
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

func (r *Repository) CreateRecurringSchedule(rs *domain.RecurringSchedule) error {
	query := `
		INSERT INTO recurring_schedules (user_id, shift_type_id, day_of_week, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{rs.UserID, rs.ShiftTypeID, rs.DayOfWeek, rs.StartDate, rs.EndDate}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rs.ID, &rs.CreatedAt, &rs.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRecurringSchedulesByUser(userID int64) ([]*domain.RecurringSchedule, error) {
	query := `
		SELECT id, user_id, shift_type_id, day_of_week, start_date, end_date, created_at, version
		FROM recurring_schedules
		WHERE user_id = $1
		ORDER BY day_of_week, shift_type_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.RecurringSchedule, 0)
	for rows.Next() {
		rs := &domain.RecurringSchedule{}
		dst := []any{&rs.ID, &rs.UserID, &rs.ShiftTypeID, &rs.DayOfWeek, &rs.StartDate, &rs.EndDate, &rs.CreatedAt, &rs.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, rs)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *Repository) DeleteRecurringSchedule(id int64) error {
	query := `
		DELETE FROM recurring_schedules WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) CreateScheduleException(se *domain.ScheduleException) error {
	query := `
		INSERT INTO schedule_exceptions (user_id, shift_type_id, date, kind, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{se.UserID, se.ShiftTypeID, se.Date, se.Kind, se.Reason}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&se.ID, &se.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateShiftAssignment(sa *domain.ShiftAssignment) error {
	query := `
		INSERT INTO shift_assignments (user_id, shift_type_id, date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{sa.UserID, sa.ShiftTypeID, sa.Date}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sa.ID, &sa.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetScheduledMembers 把"常规排班 - 请假 + 加班 + 单次排班"的聚合交给数据库完成，
// 返回某个日期所有班次的在岗人员（含角色），由 roster 包分组成快照
func (r *Repository) GetScheduledMembers(date time.Time) ([]*domain.ScheduledMember, error) {
	query := `
		SELECT x.shift_type_id, u.id, u.full_name, ur.role
		FROM (
			SELECT rs.shift_type_id, rs.user_id
			FROM recurring_schedules rs
			WHERE rs.day_of_week = $2
			  AND rs.start_date <= $1
			  AND (rs.end_date IS NULL OR rs.end_date >= $1)
			  AND NOT EXISTS (
				SELECT 1 FROM schedule_exceptions se
				WHERE se.user_id = rs.user_id
				  AND se.shift_type_id = rs.shift_type_id
				  AND se.date = $1
				  AND se.kind = 'absence'
			  )
			UNION
			SELECT se.shift_type_id, se.user_id
			FROM schedule_exceptions se
			WHERE se.date = $1 AND se.kind = 'extra'
			UNION
			SELECT sa.shift_type_id, sa.user_id
			FROM shift_assignments sa
			WHERE sa.date = $1
		) x
		JOIN users u ON u.id = x.user_id AND u.is_active = true
		JOIN user_roles ur ON ur.user_id = u.id
		ORDER BY x.shift_type_id, u.full_name
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date, int32(date.Weekday()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.ScheduledMember, 0)
	for rows.Next() {
		m := &domain.ScheduledMember{}
		if err := rows.Scan(&m.ShiftTypeID, &m.UserID, &m.FullName, &m.Role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}
