package sqlite

import (
	"context"

	"github.com/potluckhq/potluck/internal/domain"
)

type ratingsRepo struct {
	db dbtx
}

const ratingColumns = `id, user_id, recipe_id, value, created_at`

func scanRating(row interface{ Scan(dest ...any) error }) (domain.Rating, error) {
	var rt domain.Rating
	err := row.Scan(&rt.ID, &rt.UserID, &rt.RecipeID, &rt.Value, &rt.CreatedAt)
	if err != nil {
		return domain.Rating{}, err
	}
	return rt, nil
}

func (r *ratingsRepo) CreateRating(ctx context.Context, rt domain.Rating) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (id, user_id, recipe_id, value, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rt.ID, rt.UserID, rt.RecipeID, rt.Value, rt.CreatedAt)
	return mapConstraint(err)
}

func (r *ratingsRepo) GetRatingByUserAndRecipe(ctx context.Context, userID, recipeID string) (domain.Rating, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? AND recipe_id = ?`,
		userID, recipeID)

	rt, err := scanRating(row)
	if err != nil {
		return domain.Rating{}, mapNotFound(err)
	}
	return rt, nil
}

func (r *ratingsRepo) ListRatingsByRecipe(ctx context.Context, recipeID string) ([]domain.Rating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE recipe_id = ? ORDER BY id DESC`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Rating
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}
