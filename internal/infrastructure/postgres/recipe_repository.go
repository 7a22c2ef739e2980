package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	"github.com/RaiderT63/foodgram/internal/domain/repository"
)

type RecipeRepository struct {
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

func (r *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO recipes (author_id, name, image_url, description, cooking_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, rec.AuthorID, rec.Name, rec.ImageURL, rec.Description, rec.CookingTime)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return err
	}
	if err := insertComposition(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *RecipeRepository) Replace(ctx context.Context, rec *entity.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec.UpdatedAt = time.Now().UTC()
	res, err := tx.Exec(ctx, `
		UPDATE recipes
		SET name = $1, image_url = $2, description = $3, cooking_time = $4, updated_at = $5
		WHERE id = $6
	`, rec.Name, rec.ImageURL, rec.Description, rec.CookingTime, rec.UpdatedAt, rec.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, rec.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, rec.ID); err != nil {
		return err
	}
	if err := insertComposition(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Explicit cascade: line items, tag links, and any membership rows
	// referencing the recipe go in the same atomic unit.
	for _, q := range []string{
		`DELETE FROM recipe_ingredients WHERE recipe_id = $1`,
		`DELETE FROM recipe_tags WHERE recipe_id = $1`,
		`DELETE FROM favorites WHERE recipe_id = $1`,
		`DELETE FROM cart_items WHERE recipe_id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit(ctx)
}

// insertComposition bulk-inserts line items and tag links inside tx.
func insertComposition(ctx context.Context, tx pgx.Tx, rec *entity.Recipe) error {
	batch := &pgx.Batch{}
	for _, li := range rec.LineItems {
		batch.Queue(`
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
			VALUES ($1, $2, $3)
		`, rec.ID, li.IngredientID, li.Amount)
	}
	for _, tagID := range rec.TagIDs {
		batch.Queue(`
			INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)
		`, rec.ID, tagID)
	}
	br := tx.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}

const recipeColumns = `id, author_id, name, image_url, description, cooking_time, created_at, updated_at`

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*entity.Recipe, error) {
	rec := &entity.Recipe{}
	row := r.pool.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
	if err := row.Scan(&rec.ID, &rec.AuthorID, &rec.Name, &rec.ImageURL,
		&rec.Description, &rec.CookingTime, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadComposition(ctx, []*entity.Recipe{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *RecipeRepository) List(ctx context.Context, f repository.RecipeFilter, limit, offset int) ([]entity.Recipe, int, error) {
	where, args := buildRecipeFilter(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM recipes r`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`
		SELECT r.id, r.author_id, r.name, r.image_url, r.description, r.cooking_time, r.created_at, r.updated_at
		FROM recipes r%s
		ORDER BY r.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	recs, err := collectRecipes(rows)
	if err != nil {
		return nil, 0, err
	}
	refs := make([]*entity.Recipe, len(recs))
	for i := range recs {
		refs[i] = &recs[i]
	}
	if err := r.loadComposition(ctx, refs); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func buildRecipeFilter(f repository.RecipeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.AuthorID != "" {
		conds = append(conds, "r.author_id = "+arg(f.AuthorID))
	}
	if len(f.TagSlugs) > 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug = ANY(`+arg(f.TagSlugs)+`)
		)`)
	}
	if f.FavoritedBy != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM favorites fv WHERE fv.recipe_id = r.id AND fv.user_id = `+arg(f.FavoritedBy)+`
		)`)
	}
	if f.InCartOf != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM cart_items ci WHERE ci.recipe_id = r.id AND ci.user_id = `+arg(f.InCartOf)+`
		)`)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes WHERE author_id = $1 ORDER BY id DESC`
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.pool.Query(ctx, q+` LIMIT $2`, authorID, limit)
	} else {
		rows, err = r.pool.Query(ctx, q, authorID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecipes(rows)
}

func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM recipes WHERE author_id = $1`, authorID).Scan(&n)
	return n, err
}

func collectRecipes(rows pgx.Rows) ([]entity.Recipe, error) {
	var out []entity.Recipe
	for rows.Next() {
		var rec entity.Recipe
		if err := rows.Scan(&rec.ID, &rec.AuthorID, &rec.Name, &rec.ImageURL,
			&rec.Description, &rec.CookingTime, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// loadComposition fills LineItems and TagIDs for the given recipes.
func (r *RecipeRepository) loadComposition(ctx context.Context, recs []*entity.Recipe) error {
	if len(recs) == 0 {
		return nil
	}
	ids := make([]int64, len(recs))
	byID := make(map[int64]*entity.Recipe, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
		byID[rec.ID] = rec
	}

	rows, err := r.pool.Query(ctx, `
		SELECT recipe_id, ingredient_id, amount
		FROM recipe_ingredients
		WHERE recipe_id = ANY($1)
		ORDER BY recipe_id, ingredient_id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			recipeID int64
			li       entity.LineItem
		)
		if err := rows.Scan(&recipeID, &li.IngredientID, &li.Amount); err != nil {
			rows.Close()
			return err
		}
		byID[recipeID].LineItems = append(byID[recipeID].LineItems, li)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT recipe_id, tag_id FROM recipe_tags
		WHERE recipe_id = ANY($1)
		ORDER BY recipe_id, tag_id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID, tagID int64
		if err := rows.Scan(&recipeID, &tagID); err != nil {
			return err
		}
		byID[recipeID].TagIDs = append(byID[recipeID].TagIDs, tagID)
	}
	return rows.Err()
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
