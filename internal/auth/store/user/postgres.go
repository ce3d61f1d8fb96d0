package user

import (
	"context"
	"database/sql"
	"fmt"

	"petadopt/internal/auth/models"
	"petadopt/internal/platform/postgres"
	"petadopt/pkg/domain"
)

// PostgresStore persists users in the usuarios table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectUser = `
	SELECT id_usuario, nombre_usuario, apellido, email, password, telefono, direccion,
	       id_rol, estado, fecha_registro
	FROM usuarios`

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	u.Email = models.NormalizeEmail(u.Email)
	query := `
		INSERT INTO usuarios (nombre_usuario, apellido, email, password, telefono, direccion, id_rol, estado, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id_usuario
	`
	err := s.db.QueryRowContext(ctx, query,
		u.FirstName, u.LastName, u.Email, u.PasswordHash,
		nullString(u.Phone), nullString(u.Address), int64(u.RoleID), u.Status, u.RegisteredAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", postgres.Classify(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.UserID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE id_usuario = $1`, id.Int64()))
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", postgres.Classify(err))
	}
	return u, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, models.NormalizeEmail(email)))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", postgres.Classify(err))
	}
	return u, nil
}

func (s *PostgresStore) FullName(ctx context.Context, id domain.UserID) (string, string, error) {
	var first, last string
	err := s.db.QueryRowContext(ctx,
		`SELECT nombre_usuario, apellido FROM usuarios WHERE id_usuario = $1`, id.Int64()).Scan(&first, &last)
	if err != nil {
		return "", "", fmt.Errorf("find user name: %w", postgres.Classify(err))
	}
	return first, last, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u       models.User
		phone   sql.NullString
		address sql.NullString
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&phone, &address, &u.RoleID, &u.Status, &u.RegisteredAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if address.Valid {
		u.Address = &address.String
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
