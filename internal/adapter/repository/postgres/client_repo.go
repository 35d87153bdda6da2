package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres/generated"
)

const clientColumns = `id, client_name, client_type, email, phone, address, tin_number, contact_person, notes, created_by, created_at`

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	db generated.DBTX
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db generated.DBTX) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		client.ID,
		client.ClientName,
		client.ClientType,
		client.Email,
		client.Phone,
		client.Address,
		client.TINNumber,
		client.ContactPerson,
		client.Notes,
		nullIfEmpty(client.CreatedBy),
		client.CreatedAt,
	)

	return err
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := scanClient(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClientNotFound
	}

	return client, err
}

// List returns clients by name, optionally filtered by a name, email or TIN
// substring.
func (r *ClientRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	args := []any{}

	if search = strings.TrimSpace(search); search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE client_name ILIKE $1 OR email ILIKE $1 OR tin_number ILIKE $1`
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY client_name LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	var createdBy *string

	err := row.Scan(
		&c.ID,
		&c.ClientName,
		&c.ClientType,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.TINNumber,
		&c.ContactPerson,
		&c.Notes,
		&createdBy,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedBy = derefString(createdBy)

	return &c, nil
}
