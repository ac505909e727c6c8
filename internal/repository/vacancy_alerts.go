package repository

import (
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

// CreateVacancyAlert 插入一条 open 状态的空缺警报，id 由数据库生成
func (r *Repository) CreateVacancyAlert(alert *domain.VacancyAlert) error {
	query := `
		INSERT INTO vacancy_alerts (shift_type_id, date, current_staffing, minimum_required, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	alert.Status = domain.AlertStatusOpen

	args := []any{alert.ShiftTypeID, alert.Date, alert.CurrentStaffing, alert.MinimumRequired, alert.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&alert.ID, &alert.CreatedAt, &alert.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetVacancyAlertByID(id int64) (*domain.VacancyAlert, error) {
	query := `
		SELECT shift_type_id, date, current_staffing, minimum_required, status, created_at, version
		FROM vacancy_alerts WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	alert := &domain.VacancyAlert{
		ID: id,
	}

	dst := []any{&alert.ShiftTypeID, &alert.Date, &alert.CurrentStaffing, &alert.MinimumRequired, &alert.Status, &alert.CreatedAt, &alert.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return alert, nil
}

func (r *Repository) GetVacancyAlerts(status domain.AlertStatus) ([]*domain.VacancyAlert, error) {
	query := `
		SELECT id, shift_type_id, date, current_staffing, minimum_required, status, created_at, version
		FROM vacancy_alerts
		WHERE ($1 = '' OR status = $1)
		ORDER BY date, shift_type_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]*domain.VacancyAlert, 0)
	for rows.Next() {
		alert := &domain.VacancyAlert{}
		dst := []any{&alert.ID, &alert.ShiftTypeID, &alert.Date, &alert.CurrentStaffing, &alert.MinimumRequired, &alert.Status, &alert.CreatedAt, &alert.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return alerts, nil
}

// UpdateVacancyAlertStatus 只允许 open -> filled / open -> expired，
// WHERE 条件保证其他转移不会生效（返回 sql.ErrNoRows）
func (r *Repository) UpdateVacancyAlertStatus(alert *domain.VacancyAlert, status domain.AlertStatus) error {
	query := `
		UPDATE vacancy_alerts
		SET status = $1, version = version + 1
		WHERE id = $2 AND status = 'open' AND version = $3
		RETURNING status, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, status, alert.ID, alert.Version).Scan(&alert.Status, &alert.Version); err != nil {
		return err
	}

	return nil
}
