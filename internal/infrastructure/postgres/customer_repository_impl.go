package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) Add(c *entity.Customer) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (customer_id, name, phone, fingerprint_verified, face_verified, fingerprint_hash, face_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, c.CustomerID, c.Name, c.Phone, c.FingerprintVerified, c.FaceVerified, c.FingerprintHash, c.FaceHash)

	return row.Scan(&c.CreatedAt)
}

func (r *CustomerRepository) FindByID(customerID string) (*entity.Customer, error) {
	ctx := context.Background()
	c := &entity.Customer{}

	row := r.pool.QueryRow(ctx, `
		SELECT customer_id, name, phone, fingerprint_verified, face_verified, fingerprint_hash, face_hash, created_at
		FROM customers
		WHERE upper(customer_id) = upper($1)
	`, customerID)

	if err := scanCustomer(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

func (r *CustomerRepository) FindByPhone(phone string) (*entity.Customer, error) {
	ctx := context.Background()
	c := &entity.Customer{}

	row := r.pool.QueryRow(ctx, `
		SELECT customer_id, name, phone, fingerprint_verified, face_verified, fingerprint_hash, face_hash, created_at
		FROM customers
		WHERE phone = $1
		ORDER BY created_at
		LIMIT 1
	`, phone)

	if err := scanCustomer(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

// FindByIdentity keeps the in-memory matcher contract: empty keys are
// skipped, and when several records could match, the earliest registered
// one wins. Ordering by created_at (id as tiebreak) preserves that here.
func (r *CustomerRepository) FindByIdentity(fingerprintHash, faceHash string) (*entity.Customer, error) {
	ctx := context.Background()
	c := &entity.Customer{}

	row := r.pool.QueryRow(ctx, `
		SELECT customer_id, name, phone, fingerprint_verified, face_verified, fingerprint_hash, face_hash, created_at
		FROM customers
		WHERE ($1 <> '' AND fingerprint_hash = $1)
		   OR ($2 <> '' AND face_hash = $2)
		ORDER BY created_at, id
		LIMIT 1
	`, fingerprintHash, faceHash)

	if err := scanCustomer(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return c, nil
}

func (r *CustomerRepository) List() ([]*entity.Customer, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT customer_id, name, phone, fingerprint_verified, face_verified, fingerprint_hash, face_hash, created_at
		FROM customers
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		c := &entity.Customer{}
		if err := scanCustomer(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner, c *entity.Customer) error {
	return row.Scan(&c.CustomerID, &c.Name, &c.Phone, &c.FingerprintVerified,
		&c.FaceVerified, &c.FingerprintHash, &c.FaceHash, &c.CreatedAt)
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)
