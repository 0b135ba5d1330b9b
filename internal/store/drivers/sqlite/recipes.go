package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/store"
)

type recipesRepo struct {
	db dbtx
}

const recipeColumns = `id, author_id, title, description, ingredients, steps, is_public, created_at, updated_at`

func scanRecipe(row interface{ Scan(dest ...any) error }) (domain.Recipe, error) {
	var rec domain.Recipe
	err := row.Scan(&rec.ID, &rec.AuthorID, &rec.Title, &rec.Description,
		&rec.Ingredients, &rec.Steps, &rec.IsPublic, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.Recipe{}, err
	}
	return rec, nil
}

func collectRecipes(rows *sql.Rows) ([]domain.Recipe, error) {
	defer rows.Close()

	var out []domain.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *recipesRepo) CreateRecipe(ctx context.Context, rec domain.Recipe) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, author_id, title, description, ingredients, steps, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AuthorID, rec.Title, rec.Description, rec.Ingredients,
		rec.Steps, rec.IsPublic, rec.CreatedAt, rec.UpdatedAt)
	return mapConstraint(err)
}

func (r *recipesRepo) GetRecipeByID(ctx context.Context, id string) (domain.Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)

	rec, err := scanRecipe(row)
	if err != nil {
		return domain.Recipe{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *recipesRepo) ListPublicRecipes(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE is_public = 1 ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

func (r *recipesRepo) ListRecipesByAuthor(ctx context.Context, authorID string) ([]domain.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE author_id = ? ORDER BY id DESC`, authorID)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

func (r *recipesRepo) UpdateRecipe(ctx context.Context, id string, upd domain.RecipeUpdate) error {
	// COALESCE keeps the stored value wherever the caller passed nil, so a
	// partial edit is a single statement.
	res, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET
			title       = COALESCE(?, title),
			description = COALESCE(?, description),
			ingredients = COALESCE(?, ingredients),
			steps       = COALESCE(?, steps),
			is_public   = COALESCE(?, is_public),
			updated_at  = ?
		 WHERE id = ?`,
		upd.Title, upd.Description, upd.Ingredients, upd.Steps, upd.IsPublic,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *recipesRepo) DeleteRecipe(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
