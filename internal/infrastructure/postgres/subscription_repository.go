package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RaiderT63/foodgram/internal/domain/entity"
	"github.com/RaiderT63/foodgram/internal/domain/repository"
)

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) Add(ctx context.Context, subscriberID, authorID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (subscriber_id, author_id) VALUES ($1, $2)
		ON CONFLICT (subscriber_id, author_id) DO NOTHING
	`, subscriberID, authorID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *SubscriptionRepository) Remove(ctx context.Context, subscriberID, authorID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM subscriptions WHERE subscriber_id = $1 AND author_id = $2
	`, subscriberID, authorID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, authorID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND author_id = $2
		)
	`, subscriberID, authorID).Scan(&exists)
	return exists, err
}

func (r *SubscriptionRepository) ListAuthors(ctx context.Context, subscriberID string, limit, offset int) ([]entity.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM subscriptions WHERE subscriber_id = $1
	`, subscriberID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name,
		       u.password_hash, u.avatar_url, u.created_at, u.updated_at
		FROM subscriptions s
		JOIN users u ON u.id = s.author_id
		WHERE s.subscriber_id = $1
		ORDER BY s.id DESC
		LIMIT $2 OFFSET $3
	`, subscriberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.Password, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, authorID string) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name,
		       u.password_hash, u.avatar_url, u.created_at, u.updated_at
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.author_id = $1
		ORDER BY s.id
	`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.Password, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
