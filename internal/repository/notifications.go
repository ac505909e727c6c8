package repository

import (
	"fmt"
	"strings"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

// InsertNotifications 一次插入一批通知（fan-out 的单个批次），整批要么成功要么失败
func (r *Repository) InsertNotifications(notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(notifications))
	args := make([]any, 0, len(notifications)*5)
	for i, n := range notifications {
		base := i * 5
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, n.UserID, n.Title, n.Message, n.Type, n.RelatedVacancyID)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (user_id, title, message, type, related_vacancy_id)
		VALUES %s
		RETURNING id, created_at
	`, strings.Join(placeholders, ", "))

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	// RETURNING 的顺序和 VALUES 的顺序一致
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&notifications[i].ID, &notifications[i].CreatedAt); err != nil {
			return err
		}
	}

	return rows.Err()
}

func (r *Repository) GetNotificationsByUser(userID int64) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, related_vacancy_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{}
		dst := []any{&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.RelatedVacancyID, &n.IsRead, &n.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkNotificationRead 只能标记属于自己的通知，否则返回 sql.ErrNoRows
func (r *Repository) MarkNotificationRead(id int64, userID int64) error {
	query := `
		UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2 RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var returned int64
	return r.dbpool.QueryRowContext(ctx, query, id, userID).Scan(&returned)
}
