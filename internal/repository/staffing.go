package repository

import (
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

// GetRequirementsByDay 返回某个星期几的所有最低人数配置，没有配置的班次由调用方回退到缺省值
func (r *Repository) GetRequirementsByDay(dayOfWeek int32) ([]*domain.StaffingRequirement, error) {
	query := `
		SELECT id, day_of_week, shift_type_id, min_officers, min_supervisors, version
		FROM minimum_staffing
		WHERE day_of_week = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, dayOfWeek)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.StaffingRequirement, 0)
	for rows.Next() {
		req := &domain.StaffingRequirement{}
		dst := []any{&req.ID, &req.DayOfWeek, &req.ShiftTypeID, &req.MinOfficers, &req.MinSupervisors, &req.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *Repository) GetAllRequirements() ([]*domain.StaffingRequirement, error) {
	query := `
		SELECT id, day_of_week, shift_type_id, min_officers, min_supervisors, version
		FROM minimum_staffing
		ORDER BY day_of_week, shift_type_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.StaffingRequirement, 0)
	for rows.Next() {
		req := &domain.StaffingRequirement{}
		dst := []any{&req.ID, &req.DayOfWeek, &req.ShiftTypeID, &req.MinOfficers, &req.MinSupervisors, &req.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

// UpsertRequirement 以 (day_of_week, shift_type_id) 为唯一键，存在则覆盖
func (r *Repository) UpsertRequirement(req *domain.StaffingRequirement) error {
	query := `
		INSERT INTO minimum_staffing (day_of_week, shift_type_id, min_officers, min_supervisors)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day_of_week, shift_type_id) DO UPDATE
		SET min_officers = EXCLUDED.min_officers,
			min_supervisors = EXCLUDED.min_supervisors,
			version = minimum_staffing.version + 1
		RETURNING id, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{req.DayOfWeek, req.ShiftTypeID, req.MinOfficers, req.MinSupervisors}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.Version); err != nil {
		return err
	}

	return nil
}
