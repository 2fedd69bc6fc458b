package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
)

const merchantColumns = `merchant_id, reference, owner_name, aadhaar, phone, pan_name, dob, pan_number,
	income, location, email, fingerprint_verified, face_verified, fingerprint_hash, face_hash,
	trust_score, avg_rating, total_ratings, media_urls, created_at`

type MerchantRepository struct {
	pool *pgxpool.Pool
}

func NewMerchantRepository(pool *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{pool: pool}
}

func (r *MerchantRepository) Add(m *entity.Merchant) error {
	ctx := context.Background()
	if m.TrustScore == 0 {
		m.TrustScore = entity.InitialTrustScore
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO merchants (merchant_id, reference, owner_name, aadhaar, phone, pan_name, dob, pan_number,
			income, location, email, fingerprint_verified, face_verified, fingerprint_hash, face_hash,
			trust_score, avg_rating, total_ratings, media_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at
	`, m.MerchantID, m.Reference, m.OwnerName, m.Aadhaar, m.Phone, m.PANName, m.DOB, m.PANNumber,
		m.Income, m.Location, m.Email, m.FingerprintVerified, m.FaceVerified, m.FingerprintHash, m.FaceHash,
		m.TrustScore, m.AvgRating, m.TotalRatings, m.MediaURLs)

	return row.Scan(&m.CreatedAt)
}

func (r *MerchantRepository) FindByID(id string) (*entity.Merchant, error) {
	ctx := context.Background()
	m := &entity.Merchant{}

	row := r.pool.QueryRow(ctx, `
		SELECT `+merchantColumns+`
		FROM merchants
		WHERE merchant_id = $1 OR upper(reference) = upper($1)
	`, id)

	if err := scanMerchant(row, m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return m, nil
}

func (r *MerchantRepository) FindByIdentity(pan, fingerprintHash, faceHash string) (*entity.Merchant, error) {
	ctx := context.Background()
	m := &entity.Merchant{}

	row := r.pool.QueryRow(ctx, `
		SELECT `+merchantColumns+`
		FROM merchants
		WHERE ($1 <> '' AND pan_number = $1)
		   OR ($2 <> '' AND fingerprint_hash = $2)
		   OR ($3 <> '' AND face_hash = $3)
		ORDER BY created_at, id
		LIMIT 1
	`, pan, fingerprintHash, faceHash)

	if err := scanMerchant(row, m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return m, nil
}

func (r *MerchantRepository) UpdateTrustScore(id string, score int) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE merchants
		SET trust_score = $1
		WHERE merchant_id = $2 OR upper(reference) = upper($2)
	`, entity.ClampTrustScore(score), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MerchantRepository) AddMedia(id, url string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE merchants
		SET media_urls = array_append(media_urls, $1)
		WHERE merchant_id = $2 OR upper(reference) = upper($2)
	`, url, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MerchantRepository) Search(q string) ([]*entity.Merchant, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+merchantColumns+`
		FROM merchants
		WHERE merchant_id = $1
		   OR upper(reference) = upper($1)
		   OR pan_name ILIKE '%' || $1 || '%'
		   OR owner_name ILIKE '%' || $1 || '%'
		ORDER BY created_at, id
	`, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMerchants(rows)
}

func (r *MerchantRepository) List() ([]*entity.Merchant, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+merchantColumns+`
		FROM merchants
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMerchants(rows)
}

func collectMerchants(rows pgx.Rows) ([]*entity.Merchant, error) {
	out := make([]*entity.Merchant, 0)
	for rows.Next() {
		m := &entity.Merchant{}
		if err := scanMerchant(rows, m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMerchant(row rowScanner, m *entity.Merchant) error {
	return row.Scan(&m.MerchantID, &m.Reference, &m.OwnerName, &m.Aadhaar, &m.Phone,
		&m.PANName, &m.DOB, &m.PANNumber, &m.Income, &m.Location, &m.Email,
		&m.FingerprintVerified, &m.FaceVerified, &m.FingerprintHash, &m.FaceHash,
		&m.TrustScore, &m.AvgRating, &m.TotalRatings, &m.MediaURLs, &m.CreatedAt)
}

var _ repository.MerchantRepository = (*MerchantRepository)(nil)
