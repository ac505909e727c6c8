package repository

import (
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

func (r *Repository) CreateShiftType(st *domain.ShiftType) error {
	query := `
		INSERT INTO shift_types (name, start_time, end_time, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.DisplayOrder}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftType(id int64) (*domain.ShiftType, error) {
	query := `
		SELECT name, start_time, end_time, display_order, created_at, version
		FROM shift_types WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	st := &domain.ShiftType{
		ID: id,
	}

	dst := []any{&st.Name, &st.StartTime, &st.EndTime, &st.DisplayOrder, &st.CreatedAt, &st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return st, nil
}

func (r *Repository) GetAllShiftTypes() ([]*domain.ShiftType, error) {
	query := `
		SELECT id, name, start_time, end_time, display_order, created_at, version
		FROM shift_types
		ORDER BY display_order, id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sts := make([]*domain.ShiftType, 0)
	for rows.Next() {
		st := &domain.ShiftType{}
		dst := []any{&st.ID, &st.Name, &st.StartTime, &st.EndTime, &st.DisplayOrder, &st.CreatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		sts = append(sts, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sts, nil
}

func (r *Repository) UpdateShiftType(st *domain.ShiftType) error {
	query := `
		UPDATE shift_types
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			display_order = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.DisplayOrder, st.ID, st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftType(id int64) error {
	query := `
		DELETE FROM shift_types WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
