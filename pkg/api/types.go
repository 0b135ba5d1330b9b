package api

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a human-readable description of what went wrong.
	Error string `json:"error"`
}

// ============================================================================
// Auth Types
// ============================================================================

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	// Email is the address the confirmation link is sent to. It doubles as
	// the login identifier and must be unique across the service.
	Email string `json:"email"`

	// Password is the plaintext password. It is hashed before storage and
	// never returned by any endpoint.
	Password string `json:"password"`
}

// UserResponse represents a user account without credential material.
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Roles          string    `json:"roles"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned when the password check succeeds. No token is
// issued at this stage; the caller must complete the two-factor step with
// the code emailed to them.
type LoginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// TwoFactorRequest is the body of POST /v1/auth/verify-2fa.
type TwoFactorRequest struct {
	Email string `json:"email"`

	// Code is the 6-digit code from the two-factor email.
	Code string `json:"code"`
}

// TokenResponse is the final output of the authentication flow.
type TokenResponse struct {
	// AccessToken is the signed JWT used to authenticate API requests.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token.
	ExpiresIn int `json:"expires_in"`
}

// ConfirmResponse is returned by GET /v1/auth/confirm.
type ConfirmResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Recipe Types
// ============================================================================

// RecipeRequest is the body of POST /v1/recipes.
type RecipeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
	IsPublic    bool   `json:"is_public"`
}

// RecipeUpdateRequest is the body of PATCH /v1/recipes/{id}. Absent fields
// leave the stored value unchanged.
type RecipeUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
	Steps       *string `json:"steps,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// RecipeResponse represents a recipe.
type RecipeResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients string    `json:"ingredients"`
	Steps       string    `json:"steps"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecipeListResponse wraps a page of recipes.
type RecipeListResponse struct {
	Recipes []RecipeResponse `json:"recipes"`
}

// ============================================================================
// Rating Types
// ============================================================================

// RatingRequest is the body of POST /v1/ratings.
type RatingRequest struct {
	// Value is the star rating, 1 through 5 inclusive.
	Value int `json:"value"`

	RecipeID string `json:"recipe_id"`
}

// RatingResponse represents a single rating on a recipe.
type RatingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RecipeID  string    `json:"recipe_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingListResponse wraps the ratings of a recipe together with their mean.
type RatingListResponse struct {
	Ratings []RatingResponse `json:"ratings"`
	Average float64          `json:"average"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Signer   string `json:"signer,omitempty"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
