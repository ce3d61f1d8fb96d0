package request

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"petadopt/internal/adoption/models"
	"petadopt/internal/platform/postgres"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
)

// PostgresStore persists adoption requests in solicitudes_adopcion.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectView = `
	SELECT sa.id_solicitud, sa.id_usuario, sa.id_mascota, sa.fecha_solicitud,
	       sa.estado_solicitud, sa.motivo, sa.fecha_aprobacion_rechazo, sa.observaciones,
	       u.nombre_usuario, u.apellido, COALESCE(m.nombre, '')
	FROM solicitudes_adopcion sa
	JOIN usuarios u ON sa.id_usuario = u.id_usuario
	LEFT JOIN mascotas m ON sa.id_mascota = m.id_mascota`

func (s *PostgresStore) Create(ctx context.Context, r *models.Request) error {
	query := `
		INSERT INTO solicitudes_adopcion
			(id_usuario, id_mascota, fecha_solicitud, estado_solicitud, motivo, fecha_aprobacion_rechazo, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_solicitud
	`
	err := s.db.QueryRowContext(ctx, query,
		r.RequesterUserID.Int64(), r.PetID.Int64(), r.SubmittedAt, string(r.Status),
		nullString(r.Motive), nullTime(r.DecisionAt), nullString(r.Observations),
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("insert adoption request: %w", postgres.Classify(err))
	}
	return nil
}

func (s *PostgresStore) FindViewByID(ctx context.Context, id domain.AdoptionID) (*models.View, error) {
	row := s.db.QueryRowContext(ctx, selectView+` WHERE sa.id_solicitud = $1`, id.Int64())
	v, err := scanView(row)
	if err != nil {
		return nil, fmt.Errorf("find adoption request: %w", postgres.Classify(err))
	}
	return v, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.View, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Requester != nil {
		args = append(args, filter.Requester.Int64())
		conds = append(conds, fmt.Sprintf("sa.id_usuario = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, pq.Array(statuses))
		conds = append(conds, fmt.Sprintf("sa.estado_solicitud = ANY($%d)", len(args)))
	}
	query := selectView
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY sa.fecha_solicitud DESC, sa.id_solicitud DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adoption requests: %w", err)
	}
	defer rows.Close()

	out := make([]*models.View, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adoption request: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate adoption requests: %w", err)
	}
	return out, nil
}

// UpdateStatus reports whether a row was updated. The motive column is left
// as the requester wrote it.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id domain.AdoptionID, change models.StatusChange) (bool, error) {
	query := `
		UPDATE solicitudes_adopcion
		SET estado_solicitud = $1,
			fecha_aprobacion_rechazo = $2,
			observaciones = $3
		WHERE id_solicitud = $4
	`
	res, err := s.db.ExecContext(ctx, query,
		string(change.Status), nullTime(change.DecisionAt), nullString(change.Observations), id.Int64())
	if err != nil {
		return false, fmt.Errorf("update adoption request status: %w", postgres.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update adoption request status: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.AdoptionID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM solicitudes_adopcion WHERE id_solicitud = $1`, id.Int64())
	if err != nil {
		return fmt.Errorf("delete adoption request: %w", postgres.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete adoption request: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*models.View, error) {
	var (
		v            models.View
		status       string
		motive       sql.NullString
		decisionAt   sql.NullTime
		observations sql.NullString
	)
	err := row.Scan(
		&v.ID, &v.RequesterUserID, &v.PetID, &v.SubmittedAt,
		&status, &motive, &decisionAt, &observations,
		&v.RequesterName, &v.RequesterLastName, &v.PetName,
	)
	if err != nil {
		return nil, err
	}
	v.Status = models.Status(status)
	if motive.Valid {
		v.Motive = &motive.String
	}
	if decisionAt.Valid {
		t := decisionAt.Time
		v.DecisionAt = &t
	}
	if observations.Valid {
		v.Observations = &observations.String
	}
	return &v, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
