package notification

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"petadopt/internal/notification/models"
	"petadopt/internal/platform/postgres"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
)

// PostgresStore persists notifications in the notificaciones table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectColumns = `id_notificacion, id_usuario, mensaje, fecha_hora, leida, tipo_notificacion`

func (s *PostgresStore) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notificaciones (id_usuario, mensaje, fecha_hora, leida, tipo_notificacion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_notificacion
	`
	err := s.db.QueryRowContext(ctx, query,
		n.RecipientUserID.Int64(), n.Message, n.CreatedAt, n.Read, string(n.Type),
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", postgres.Classify(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.NotificationID) (*models.Notification, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM notificaciones WHERE id_notificacion = $1`, id.Int64())
	n, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("find notification: %w", postgres.Classify(err))
	}
	return n, nil
}

// List builds the WHERE clause from filter; type sets are passed as one array
// parameter.
func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Recipient != nil {
		args = append(args, filter.Recipient.Int64())
		conds = append(conds, fmt.Sprintf("id_usuario = $%d", len(args)))
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		conds = append(conds, fmt.Sprintf("tipo_notificacion = ANY($%d)", len(args)))
	}
	if filter.UnreadOnly {
		conds = append(conds, "NOT leida")
	}

	query := `SELECT ` + selectColumns + ` FROM notificaciones`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY fecha_hora DESC, id_notificacion DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

// MarkRead only touches unread rows, so a second call changes nothing. A
// zero-row update is disambiguated with an existence check.
func (s *PostgresStore) MarkRead(ctx context.Context, id domain.NotificationID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notificaciones SET leida = TRUE WHERE id_notificacion = $1 AND NOT leida`, id.Int64())
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM notificaciones WHERE id_notificacion = $1)`, id.Int64()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	if !exists {
		return false, sentinel.ErrNotFound
	}
	return false, nil
}

func (s *PostgresStore) MarkAllReadForUser(ctx context.Context, userID domain.UserID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notificaciones SET leida = TRUE WHERE id_usuario = $1 AND NOT leida`, userID.Int64())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.NotificationID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notificaciones WHERE id_notificacion = $1`, id.Int64())
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n   models.Notification
		typ string
	)
	if err := row.Scan(&n.ID, &n.RecipientUserID, &n.Message, &n.CreatedAt, &n.Read, &typ); err != nil {
		return nil, err
	}
	n.Type = models.Type(typ)
	return &n, nil
}
