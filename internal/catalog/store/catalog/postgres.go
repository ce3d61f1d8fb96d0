package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"petadopt/internal/catalog/models"
	"petadopt/internal/platform/postgres"
	"petadopt/pkg/domain"
)

// PostgresStore reads mascotas, refugios and galeriamultimedia.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const petColumns = `m.id_mascota, m.nombre, m.especie, m.raza, m.edad, m.sexo, m.tamano,
	m.descripcion, m.fecha_rescate, m.estado_adopcion, m.id_refugio`

func (s *PostgresStore) ListPets(ctx context.Context, filter models.PetFilter) ([]*models.Pet, error) {
	var (
		conds []string
		args  []any
	)
	if len(filter.Statuses) > 0 {
		args = append(args, pq.Array(filter.Statuses))
		conds = append(conds, fmt.Sprintf("m.estado_adopcion = ANY($%d)", len(args)))
	}
	if filter.Species != "" {
		args = append(args, filter.Species)
		conds = append(conds, fmt.Sprintf("lower(m.especie) = lower($%d)", len(args)))
	}
	if filter.ShelterID != nil {
		args = append(args, filter.ShelterID.Int64())
		conds = append(conds, fmt.Sprintf("m.id_refugio = $%d", len(args)))
	}

	query := `SELECT ` + petColumns + `,
		(SELECT g.url_archivo FROM galeriamultimedia g
		 WHERE g.id_mascota = m.id_mascota
		 ORDER BY g.fecha_subida DESC, g.id_multimedia DESC LIMIT 1)
		FROM mascotas m`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY m.fecha_rescate DESC NULLS LAST, m.id_mascota DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", postgres.Classify(err))
	}
	defer rows.Close()

	var out []*models.Pet
	for rows.Next() {
		var photo sql.NullString
		p, err := scanPet(rows, &photo)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		if photo.Valid {
			p.PhotoURL = &photo.String
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pets: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindPet(ctx context.Context, id domain.PetID) (*models.Pet, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM mascotas m WHERE m.id_mascota = $1`, id.Int64())
	p, err := scanPet(row)
	if err != nil {
		return nil, fmt.Errorf("find pet: %w", postgres.Classify(err))
	}
	gallery, err := s.ListMedia(ctx, &id)
	if err != nil {
		return nil, err
	}
	p.Gallery = gallery
	return p, nil
}

func (s *PostgresStore) PetName(ctx context.Context, id domain.PetID) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT nombre FROM mascotas WHERE id_mascota = $1`, id.Int64()).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("find pet name: %w", postgres.Classify(err))
	}
	return name, nil
}

const shelterColumns = `id_refugio, nombre, direccion, ciudad, pais, telefono, email, estado`

func (s *PostgresStore) ListShelters(ctx context.Context) ([]*models.Shelter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+shelterColumns+` FROM refugios ORDER BY id_refugio`)
	if err != nil {
		return nil, fmt.Errorf("list shelters: %w", postgres.Classify(err))
	}
	defer rows.Close()

	var out []*models.Shelter
	for rows.Next() {
		sh, err := scanShelter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shelter: %w", err)
		}
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shelters: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindShelter(ctx context.Context, id domain.ShelterID) (*models.Shelter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shelterColumns+` FROM refugios WHERE id_refugio = $1`, id.Int64())
	sh, err := scanShelter(row)
	if err != nil {
		return nil, fmt.Errorf("find shelter: %w", postgres.Classify(err))
	}
	return sh, nil
}

func (s *PostgresStore) ListMedia(ctx context.Context, petID *domain.PetID) ([]*models.MediaItem, error) {
	query := `
		SELECT g.id_multimedia, g.id_mascota, g.tipo_archivo, g.url_archivo, g.descripcion,
		       g.fecha_subida, COALESCE(m.nombre, '')
		FROM galeriamultimedia g
		LEFT JOIN mascotas m ON g.id_mascota = m.id_mascota`
	var args []any
	if petID != nil {
		query += ` WHERE g.id_mascota = $1`
		args = append(args, petID.Int64())
	}
	query += ` ORDER BY g.fecha_subida DESC, g.id_multimedia DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", postgres.Classify(err))
	}
	defer rows.Close()

	var out []*models.MediaItem
	for rows.Next() {
		var (
			m    models.MediaItem
			desc sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.PetID, &m.MediaType, &m.URL, &desc, &m.UploadedAt, &m.PetName); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		if petID != nil {
			m.PetName = ""
		}
		m.Description = stringPtr(desc)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(row scanner, extra ...any) (*models.Pet, error) {
	var (
		p                      models.Pet
		breed, sex, size, desc sql.NullString
		age                    sql.NullInt64
		rescued                sql.NullTime
		shelter                sql.NullInt64
	)
	dest := []any{&p.ID, &p.Name, &p.Species, &breed, &age, &sex, &size, &desc, &rescued, &p.AdoptionStatus, &shelter}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Breed, p.Sex, p.Size, p.Description = stringPtr(breed), stringPtr(sex), stringPtr(size), stringPtr(desc)
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	if rescued.Valid {
		t := rescued.Time
		p.RescuedAt = &t
	}
	if shelter.Valid {
		id := domain.ShelterID(shelter.Int64)
		p.ShelterID = &id
	}
	return &p, nil
}

func scanShelter(row scanner) (*models.Shelter, error) {
	var (
		sh           models.Shelter
		phone, email sql.NullString
	)
	if err := row.Scan(&sh.ID, &sh.Name, &sh.Address, &sh.City, &sh.Country, &phone, &email, &sh.Status); err != nil {
		return nil, err
	}
	sh.Phone, sh.Email = stringPtr(phone), stringPtr(email)
	return &sh, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
