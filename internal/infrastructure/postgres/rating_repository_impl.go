package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	"github.com/bharosahq/trust-network/internal/domain/repository"
)

type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func (r *RatingRepository) FindByRaterAndMerchant(raterID, merchantID string) (*entity.Rating, error) {
	ctx := context.Background()
	rt := &entity.Rating{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, rater_id, merchant_id, merchant_name, value, comment, rated_at, location
		FROM ratings
		WHERE rater_id = $1 AND merchant_id = $2
	`, raterID, merchantID)

	if err := scanRating(row, rt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rt, nil
}

// Upsert relies on the (rater_id, merchant_id) unique constraint; conflicts
// update the existing row in place, so the original rating ID survives.
func (r *RatingRepository) Upsert(rt *entity.Rating) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ratings (id, rater_id, merchant_id, merchant_name, value, comment, rated_at, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (rater_id, merchant_id) DO UPDATE
		SET merchant_name = EXCLUDED.merchant_name,
		    value = EXCLUDED.value,
		    comment = EXCLUDED.comment,
		    rated_at = EXCLUDED.rated_at,
		    location = EXCLUDED.location
	`, rt.ID, rt.RaterID, rt.MerchantID, rt.MerchantName, rt.Value, rt.Comment, rt.Date, rt.Location)
	return err
}

func (r *RatingRepository) ListByRater(raterID string) ([]*entity.Rating, error) {
	return r.list(`SELECT id, rater_id, merchant_id, merchant_name, value, comment, rated_at, location
		FROM ratings WHERE rater_id = $1 ORDER BY rated_at DESC`, raterID)
}

func (r *RatingRepository) ListByMerchant(merchantID string) ([]*entity.Rating, error) {
	return r.list(`SELECT id, rater_id, merchant_id, merchant_name, value, comment, rated_at, location
		FROM ratings WHERE merchant_id = $1 ORDER BY rated_at DESC`, merchantID)
}

func (r *RatingRepository) list(query string, arg any) ([]*entity.Rating, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Rating, 0)
	for rows.Next() {
		rt := &entity.Rating{}
		if err := scanRating(rows, rt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func scanRating(row rowScanner, rt *entity.Rating) error {
	return row.Scan(&rt.ID, &rt.RaterID, &rt.MerchantID, &rt.MerchantName,
		&rt.Value, &rt.Comment, &rt.Date, &rt.Location)
}

var _ repository.RatingRepository = (*RatingRepository)(nil)
