package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RaiderT63/foodgram/internal/domain/entity"
	"github.com/RaiderT63/foodgram/internal/domain/repository"
)

type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// membershipTable maps a kind to its backing table. Both tables share the
// (user_id, recipe_id) shape and unique constraint.
func membershipTable(kind entity.MembershipKind) (string, error) {
	switch kind {
	case entity.MembershipFavorite:
		return "favorites", nil
	case entity.MembershipCart:
		return "cart_items", nil
	}
	return "", fmt.Errorf("unknown membership kind %q", kind)
}

func (r *MembershipRepository) Add(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error) {
	table, err := membershipTable(kind)
	if err != nil {
		return false, err
	}
	// ON CONFLICT DO NOTHING keeps concurrent adds atomic against the
	// unique constraint: exactly one insert wins, the loser sees zero rows.
	res, err := r.pool.Exec(ctx, `
		INSERT INTO `+table+` (user_id, recipe_id) VALUES ($1, $2)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`, userID, recipeID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *MembershipRepository) Remove(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error) {
	table, err := membershipTable(kind)
	if err != nil {
		return false, err
	}
	res, err := r.pool.Exec(ctx, `
		DELETE FROM `+table+` WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *MembershipRepository) Contains(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error) {
	table, err := membershipTable(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	err = r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM `+table+` WHERE user_id = $1 AND recipe_id = $2)
	`, userID, recipeID).Scan(&exists)
	return exists, err
}

func (r *MembershipRepository) CartLines(ctx context.Context, userID string) ([]entity.CartLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.name, i.measurement_unit, ri.amount
		FROM cart_items ci
		JOIN recipe_ingredients ri ON ri.recipe_id = ci.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ci.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.CartLine
	for rows.Next() {
		var l entity.CartLine
		if err := rows.Scan(&l.IngredientName, &l.MeasurementUnit, &l.Amount); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

var _ repository.MembershipRepository = (*MembershipRepository)(nil)
