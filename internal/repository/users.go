package repository

import (
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT u.username, u.password_hash, u.full_name, u.email, u.phone, ur.role, u.is_active, u.created_at, u.version
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Phone, &user.Role, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT u.id, u.password_hash, u.full_name, u.email, u.phone, ur.role, u.is_active, u.created_at, u.version
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.username = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{
		Username: username,
	}

	dst := []any{&user.ID, &user.PasswordHash, &user.FullName, &user.Email, &user.Phone, &user.Role, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.full_name, u.email, u.phone, ur.role, u.is_active, u.created_at, u.version
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		ORDER BY u.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Phone, &user.Role, &user.IsActive, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// GetActiveUsersByRole 用于通知 fan-out 时解析受众（role = officer 的所有在职用户）
func (r *Repository) GetActiveUsersByRole(role domain.Role) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.full_name, u.email, u.phone, ur.role, u.is_active, u.created_at, u.version
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role = $1 AND u.is_active = true
		ORDER BY u.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Phone, &user.Role, &user.IsActive, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// CreateUser 需要同时写 users 和 user_roles 两张表，放在一个事务里
func (r *Repository) CreateUser(user *domain.User) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertUser := `
		INSERT INTO users (username, password_hash, full_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	args := []any{user.Username, user.PasswordHash, user.FullName, user.Email, user.Phone}
	if err := tx.QueryRowContext(ctx, insertUser, args...).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.Version); err != nil {
		return err
	}

	insertRole := `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
	`
	if _, err := tx.ExecContext(ctx, insertRole, user.ID, user.Role); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) UpdateUser(user *domain.User) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateUser := `
		UPDATE users
		SET
			password_hash = $1,
			email = $2,
			phone = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING username, full_name, created_at, version
	`

	args := []any{user.PasswordHash, user.Email, user.Phone, user.IsActive, user.ID, user.Version}
	dst := []any{&user.Username, &user.FullName, &user.CreatedAt, &user.Version}
	if err := tx.QueryRowContext(ctx, updateUser, args...).Scan(dst...); err != nil {
		return err
	}

	updateRole := `
		UPDATE user_roles SET role = $1 WHERE user_id = $2
	`
	if _, err := tx.ExecContext(ctx, updateRole, user.Role, user.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) UpdateUserPassword(id int64, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $1, version = version + 1 WHERE id = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, passwordHash, id)
	return err
}

func (r *Repository) DeleteUser(id int64) error {
	query := `
		DELETE FROM users WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
