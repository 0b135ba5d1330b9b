package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/potluckhq/potluck/internal/service"
	"github.com/potluckhq/potluck/internal/store/drivers/sqlite"
	"github.com/potluckhq/potluck/pkg/api"
	"github.com/potluckhq/potluck/pkg/cryptox"
	"github.com/potluckhq/potluck/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// captureNotifier records outbound mail so tests can replay tokens and codes.
type captureNotifier struct {
	confirmToken string
	code         string
}

func (c *captureNotifier) SendConfirmation(ctx context.Context, to, token string) error {
	c.confirmToken = token
	return nil
}

func (c *captureNotifier) SendTwoFactorCode(ctx context.Context, to, code string) error {
	c.code = code
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *captureNotifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewCommonEdDSA(keys, "potluck-test", nil)

	notifier := &captureNotifier{}
	logger := slog.New(slog.DiscardHandler)

	router := NewRouter(keys, verifier, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:     st,
		Mail:      notifier,
		Signer:    signer,
		Issuer:    "potluck-test",
		AccessTTL: jwtx.DefaultAccessTokenTTL,
	}
	router.RecipeService = &service.RecipeService{Store: st}
	router.RatingService = &service.RatingService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, notifier
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// authenticate walks a fresh user through the whole flow and returns the
// access token plus the registered user's id.
func authenticate(t *testing.T, srv *httptest.Server, notifier *captureNotifier, email string) (string, string) {
	t.Helper()

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/register", "", api.RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user api.UserResponse
	require.NoError(t, json.Unmarshal(data, &user))

	resp, _ = doJSON(t, http.MethodGet,
		srv.URL+"/v1/auth/confirm?token="+url.QueryEscape(notifier.confirmToken), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", api.LoginRequest{
		Email:    email,
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/verify-2fa", "", api.TwoFactorRequest{
		Email: email,
		Code:  notifier.code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok api.TokenResponse
	require.NoError(t, json.Unmarshal(data, &tok))
	require.NotEmpty(t, tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
	return tok.AccessToken, user.ID
}

func TestAuthFlow(t *testing.T) {
	srv, notifier := newTestServer(t)

	// Register.
	resp, data := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/register", "", api.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user api.UserResponse
	require.NoError(t, json.Unmarshal(data, &user))
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "USER", user.Roles)
	require.False(t, user.EmailConfirmed)

	// Duplicate registration conflicts.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/register", "", api.RegisterRequest{
		Email:    "alice@example.com",
		Password: "another password.",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login before confirmation is refused.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Confirm via the emailed token.
	resp, _ = doJSON(t, http.MethodGet,
		srv.URL+"/v1/auth/confirm?token="+url.QueryEscape(notifier.confirmToken), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Login answers with the email and no token.
	resp, data = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login api.LoginResponse
	require.NoError(t, json.Unmarshal(data, &login))
	require.Equal(t, "alice@example.com", login.Email)
	require.NotContains(t, string(data), "access_token")

	// A wrong code is refused.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/verify-2fa", "", api.TwoFactorRequest{
		Email: "alice@example.com",
		Code:  "000000",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The emailed code completes the flow.
	resp, data = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/verify-2fa", "", api.TwoFactorRequest{
		Email: "alice@example.com",
		Code:  notifier.code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok api.TokenResponse
	require.NoError(t, json.Unmarshal(data, &tok))
	require.NotEmpty(t, tok.AccessToken)

	// The code is single use.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/verify-2fa", "", api.TwoFactorRequest{
		Email: "alice@example.com",
		Code:  notifier.code,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecipeEndpoints(t *testing.T) {
	srv, notifier := newTestServer(t)
	aliceToken, aliceID := authenticate(t, srv, notifier, "alice@example.com")
	bobToken, _ := authenticate(t, srv, notifier, "bob@example.com")

	// Unauthenticated creation is refused.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/recipes", "", api.RecipeRequest{Title: "Pav"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Create a public and a private recipe. Authorship comes from the token.
	resp, data := doJSON(t, http.MethodPost, srv.URL+"/v1/recipes", aliceToken, api.RecipeRequest{
		Title:    "Public pav",
		IsPublic: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var public api.RecipeResponse
	require.NoError(t, json.Unmarshal(data, &public))
	require.Equal(t, aliceID, public.AuthorID)

	resp, data = doJSON(t, http.MethodPost, srv.URL+"/v1/recipes", aliceToken, api.RecipeRequest{
		Title: "Secret sauce",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var private api.RecipeResponse
	require.NoError(t, json.Unmarshal(data, &private))

	t.Run("public browse lists only public recipes", func(t *testing.T) {
		resp, data := doJSON(t, http.MethodGet, srv.URL+"/v1/recipes", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list api.RecipeListResponse
		require.NoError(t, json.Unmarshal(data, &list))
		require.Len(t, list.Recipes, 1)
		require.Equal(t, public.ID, list.Recipes[0].ID)
	})

	t.Run("anonymous read of a private recipe is forbidden", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/"+private.ID, "", nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("author reads their private recipe with optional auth", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/"+private.ID, aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing recipe is not found", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/does-not-exist", "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("my listing requires auth and shows private recipes", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/my", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, data := doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/my", aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list api.RecipeListResponse
		require.NoError(t, json.Unmarshal(data, &list))
		require.Len(t, list.Recipes, 2)
	})

	t.Run("my detail returns owned and public recipes", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/my/"+private.ID, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/my/"+private.ID, aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Another user's public recipe is readable here too.
		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/my/"+public.ID, bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Their private one is not.
		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/my/"+private.ID, bobToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/my/does-not-exist", aliceToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("strangers cannot update or delete", func(t *testing.T) {
		title := "hijacked"
		resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/v1/recipes/"+public.ID, bobToken,
			api.RecipeUpdateRequest{Title: &title})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/v1/recipes/"+public.ID, bobToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner updates and deletes", func(t *testing.T) {
		title := "Renamed pav"
		resp, data := doJSON(t, http.MethodPatch, srv.URL+"/v1/recipes/"+public.ID, aliceToken,
			api.RecipeUpdateRequest{Title: &title})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated api.RecipeResponse
		require.NoError(t, json.Unmarshal(data, &updated))
		require.Equal(t, "Renamed pav", updated.Title)

		resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/v1/recipes/"+public.ID, aliceToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/"+public.ID, "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRatingEndpoints(t *testing.T) {
	srv, notifier := newTestServer(t)
	aliceToken, _ := authenticate(t, srv, notifier, "alice@example.com")
	bobToken, _ := authenticate(t, srv, notifier, "bob@example.com")

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/v1/recipes", aliceToken, api.RecipeRequest{
		Title:    "Public pav",
		IsPublic: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var recipe api.RecipeResponse
	require.NoError(t, json.Unmarshal(data, &recipe))

	// Rate it once.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/ratings", bobToken, api.RatingRequest{
		RecipeID: recipe.ID,
		Value:    4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A second rating by the same user conflicts.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/ratings", bobToken, api.RatingRequest{
		RecipeID: recipe.ID,
		Value:    5,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Out-of-range values are rejected up front.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/ratings", aliceToken, api.RatingRequest{
		RecipeID: recipe.ID,
		Value:    6,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Anonymous listing with the average.
	resp, data = doJSON(t, http.MethodGet, srv.URL+"/v1/recipes/"+recipe.ID+"/ratings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list api.RatingListResponse
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list.Ratings, 1)
	require.InDelta(t, 4.0, list.Average, 0.001)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(data, &health))
	require.Equal(t, "ok", health.Status)

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &health))
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestJWKSEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/.well-known/jwks.json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var jwks jwtx.JWKS
	require.NoError(t, json.Unmarshal(data, &jwks))
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "test-key", jwks.Keys[0].Kid)
}
