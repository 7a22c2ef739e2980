package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	"github.com/RaiderT63/foodgram/internal/domain/repository"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListTags(ctx context.Context) ([]entity.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTags(rows)
}

func (r *CatalogRepository) GetTag(ctx context.Context, id int64) (*entity.Tag, error) {
	t := &entity.Tag{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *CatalogRepository) GetTagsByIDs(ctx context.Context, ids []int64) ([]entity.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM tags WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTags(rows)
}

func (r *CatalogRepository) ListIngredients(ctx context.Context, namePrefix string) ([]entity.Ingredient, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if namePrefix != "" {
		rows, err = r.pool.Query(ctx, `
			SELECT id, name, measurement_unit FROM ingredients
			WHERE name ILIKE $1 || '%' ORDER BY name
		`, namePrefix)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, name, measurement_unit FROM ingredients ORDER BY name
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIngredients(rows)
}

func (r *CatalogRepository) GetIngredient(ctx context.Context, id int64) (*entity.Ingredient, error) {
	ing := &entity.Ingredient{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`, id).
		Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return ing, nil
}

func (r *CatalogRepository) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]entity.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, measurement_unit FROM ingredients WHERE id = ANY($1) ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIngredients(rows)
}

func collectTags(rows pgx.Rows) ([]entity.Tag, error) {
	var out []entity.Tag
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func collectIngredients(rows pgx.Rows) ([]entity.Ingredient, error) {
	var out []entity.Ingredient
	for rows.Next() {
		var ing entity.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)
