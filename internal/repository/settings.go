package repository

import (
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

func (r *Repository) GetWebsiteSetting(key string) (*domain.WebsiteSetting, error) {
	query := `
		SELECT value, updated_at FROM website_settings WHERE key = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	setting := &domain.WebsiteSetting{
		Key: key,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, key).Scan(&setting.Value, &setting.UpdatedAt); err != nil {
		return nil, err
	}

	return setting, nil
}

func (r *Repository) GetAllWebsiteSettings() ([]*domain.WebsiteSetting, error) {
	query := `
		SELECT key, value, updated_at FROM website_settings ORDER BY key
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make([]*domain.WebsiteSetting, 0)
	for rows.Next() {
		s := &domain.WebsiteSetting{}
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *Repository) UpsertWebsiteSetting(setting *domain.WebsiteSetting) error {
	query := `
		INSERT INTO website_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
		RETURNING updated_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, setting.Key, setting.Value).Scan(&setting.UpdatedAt); err != nil {
		return err
	}

	return nil
}
