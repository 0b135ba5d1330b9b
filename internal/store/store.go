package store

import (
	"context"
	"errors"

	"github.com/potluckhq/potluck/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. We can change having the sub-repos as methods later but we do it
// now so we can have more control and actively stop people from accidently
// doing transactions within transactions.
type Store interface {
	Users() Users
	Tokens() Tokens
	Recipes() Recipes
	Ratings() Ratings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., email
	// confirmation). The caller MUST call Commit() or Rollback() on the
	// returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and duplicate checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// MarkEmailConfirmed flips email_confirmed and bumps updated_at.
	MarkEmailConfirmed(ctx context.Context, userID string) error

	// UpdateRoles replaces the user's role string and bumps updated_at.
	UpdateRoles(ctx context.Context, userID string, roles []string) error
}

type Tokens interface {
	// CreateToken stores a new one-time token record.
	CreateToken(ctx context.Context, t domain.OneTimeToken) error

	// GetTokenByValue fetches a token by its globally unique value
	// (email confirmation path, where the link carries no user id).
	GetTokenByValue(ctx context.Context, value string) (domain.OneTimeToken, error)

	// GetTokenForUser fetches a token by (value, user, kind). Used for 2FA
	// codes, which are only unique per user.
	GetTokenForUser(ctx context.Context, value, userID, kind string) (domain.OneTimeToken, error)

	// ConsumeToken deletes the token by id. Returns ErrNotFound if it was
	// already consumed, which makes single-use enforcement atomic.
	ConsumeToken(ctx context.Context, id string) error

	// DeleteExpiredTokens is housekeeping.
	DeleteExpiredTokens(ctx context.Context) error
}

type Recipes interface {
	// CreateRecipe inserts a new recipe (id is ULID).
	CreateRecipe(ctx context.Context, r domain.Recipe) error

	// GetRecipeByID returns a recipe regardless of visibility; callers
	// apply the access policy.
	GetRecipeByID(ctx context.Context, id string) (domain.Recipe, error)

	// ListPublicRecipes returns all public recipes, newest first.
	ListPublicRecipes(ctx context.Context) ([]domain.Recipe, error)

	// ListRecipesByAuthor returns all recipes owned by a user, newest first.
	ListRecipesByAuthor(ctx context.Context, authorID string) ([]domain.Recipe, error)

	// UpdateRecipe applies the non-nil fields of upd and bumps updated_at.
	UpdateRecipe(ctx context.Context, id string, upd domain.RecipeUpdate) error

	// DeleteRecipe removes a recipe; ratings cascade per schema.
	DeleteRecipe(ctx context.Context, id string) error
}

type Ratings interface {
	// CreateRating inserts a rating. Returns ErrAlreadyExists when the user
	// has already rated the recipe (UNIQUE(user_id, recipe_id)).
	CreateRating(ctx context.Context, r domain.Rating) error

	// GetRatingByUserAndRecipe fetches a user's rating on a recipe.
	GetRatingByUserAndRecipe(ctx context.Context, userID, recipeID string) (domain.Rating, error)

	// ListRatingsByRecipe returns all ratings on a recipe, newest first.
	ListRatingsByRecipe(ctx context.Context, recipeID string) ([]domain.Rating, error)
}
