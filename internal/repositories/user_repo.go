package repositories

import (
	"context"
	"fmt"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit, offset int) ([]*models.UserRow, error)
	ListByRole(ctx context.Context, roleName string) ([]*models.UserRow, error)
	ListByRegions(ctx context.Context, regionIDs []uuid.UUID) ([]*models.UserRow, error)
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	SetValidationStatus(ctx context.Context, userID uuid.UUID, status string) error
	SetAssignedAdmin(ctx context.Context, userID uuid.UUID, adminID *uuid.UUID) error
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, region_id, assigned_admin_id, validation_status, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash,
		user.Phone, user.RegionID, user.AssignedAdminID, user.ValidationStatus, user.IsActive)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, phone, region_id, assigned_admin_id, validation_status, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Phone, &user.RegionID, &user.AssignedAdminID, &user.ValidationStatus, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, phone, region_id, assigned_admin_id, validation_status, is_active, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Phone, &user.RegionID, &user.AssignedAdminID, &user.ValidationStatus, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, phone = $3, region_id = $4, assigned_admin_id = $5, validation_status = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, user.Name, user.Email, user.Phone, user.RegionID,
		user.AssignedAdminID, user.ValidationStatus, user.IsActive, user.ID)
	return err
}

const userRowQuery = `
	SELECT u.id, u.name, u.email, u.password_hash, u.phone, u.region_id, u.assigned_admin_id, u.validation_status, u.is_active, u.created_at, u.updated_at,
	       COALESCE(array_agg(ro.name) FILTER (WHERE ro.name IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles ro ON ro.id = ur.role_id
`

func scanUserRows(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.UserRow, error) {
	var users []*models.UserRow
	for rows.Next() {
		row := &models.UserRow{}
		if err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.PasswordHash, &row.Phone, &row.RegionID,
			&row.AssignedAdminID, &row.ValidationStatus, &row.IsActive, &row.CreatedAt, &row.UpdatedAt, &row.Roles); err != nil {
			return nil, err
		}
		users = append(users, row)
	}
	return users, nil
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*models.UserRow, error) {
	query := userRowQuery + `
		GROUP BY u.id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserRows(rows)
}

func (r *userRepo) ListByRole(ctx context.Context, roleName string) ([]*models.UserRow, error) {
	query := userRowQuery + `
		WHERE EXISTS (
			SELECT 1 FROM user_roles ur2
			JOIN roles ro2 ON ro2.id = ur2.role_id
			WHERE ur2.user_id = u.id AND ro2.name = $1
		)
		GROUP BY u.id
		ORDER BY u.name
	`
	rows, err := r.db.Query(ctx, query, roleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserRows(rows)
}

func (r *userRepo) ListByRegions(ctx context.Context, regionIDs []uuid.UUID) ([]*models.UserRow, error) {
	query := userRowQuery + `
		WHERE u.region_id = ANY($1)
		GROUP BY u.id
		ORDER BY u.name
	`
	rows, err := r.db.Query(ctx, query, regionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserRows(rows)
}

func (r *userRepo) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT ro.name
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, nil
}

func (r *userRepo) SetAssignedAdmin(ctx context.Context, userID uuid.UUID, adminID *uuid.UUID) error {
	query := `UPDATE users SET assigned_admin_id = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, adminID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *userRepo) SetValidationStatus(ctx context.Context, userID uuid.UUID, status string) error {
	query := `UPDATE users SET validation_status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}
