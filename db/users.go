package db

import (
	"context"

	"academic/models"
)

const userColumns = `id, national_id, name, email, password_hash, role, is_active,
        phone, address, birth_date, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	query := `
        INSERT INTO users
            (national_id, name, email, password_hash, role, is_active, phone, address, birth_date)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query,
		u.NationalID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, u.Phone, u.Address, u.BirthDate).
		Scan(&u.ID, &u.CreatedAt)
	return translate(err)
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	if err := s.db.GetContext(ctx, u, query, id); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Storage) GetUserByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE national_id=$1`
	if err := s.db.GetContext(ctx, u, query, nationalID); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email)=lower($1)`
	if err := s.db.GetContext(ctx, u, query, email); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	var w whereBuilder
	if f.Role != nil {
		w.add("role = $%d", *f.Role)
	}
	query := `SELECT ` + userColumns + ` FROM users` + w.String() + ` ORDER BY id ASC` + w.page(f.Skip, f.Limit)

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, query, w.args...); err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// UpdateUser сохраняет профиль. Роль, национальный номер и пароль здесь не меняются.
func (s *Storage) UpdateUser(ctx context.Context, u *models.User) error {
	query := `
        UPDATE users
        SET name=$1, email=$2, phone=$3, address=$4, birth_date=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.Phone, u.Address, u.BirthDate, u.IsActive, u.ID).
		Scan(&u.UpdatedAt)
	return translate(err)
}

func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "users", id)
}
