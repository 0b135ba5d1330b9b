package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/mail"
	"github.com/potluckhq/potluck/internal/store"
	"github.com/potluckhq/potluck/pkg/cryptox"
	"github.com/potluckhq/potluck/pkg/idx"
	"github.com/potluckhq/potluck/pkg/jwtx"
	"github.com/potluckhq/potluck/pkg/slogx"
)

// One-time token lifetimes.
const (
	ValidationTokenTTL = 100 * time.Hour
	TwoFactorTokenTTL  = 10 * time.Minute
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCode        = errors.New("invalid or expired code")
)

// AuthService implements the registration and two-step login flow:
// register, confirm email, password login, emailed 2FA code, JWT issuance.
type AuthService struct {
	Store store.Store
	Mail  mail.Notifier

	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time

	// GenerateOTP overrides code generation in tests. Nil means cryptox.GenerateOTP.
	GenerateOTP func() (string, error)
}

func (s *AuthService) generateOTP() (string, error) {
	if s.GenerateOTP != nil {
		return s.GenerateOTP()
	}
	return cryptox.GenerateOTP()
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Register creates an unconfirmed account and emails a confirmation link.
// The mail send is awaited: if it fails the caller sees the error, though the
// user row and token already exist at that point.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Hash the password before anything touches the database.
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	// 2. Create the user. The UNIQUE constraint on email is the real
	// duplicate check; relying on it avoids a lookup race.
	user := domain.User{
		ID:             idx.New().String(),
		Email:          email,
		PasswordHash:   hash,
		Roles:          []string{domain.RoleUser},
		EmailConfirmed: false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration with taken email", slog.String("email", email))
			return domain.User{}, ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	// 3. Mint the confirmation token.
	value, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		log.Error("failed to generate confirmation token", slog.Any("error", err))
		return domain.User{}, err
	}

	token := domain.OneTimeToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Kind:      domain.TokenKindValidation,
		Value:     value,
		ExpiresAt: now.Add(ValidationTokenTTL),
		CreatedAt: now,
	}
	if err := s.Store.Tokens().CreateToken(ctx, token); err != nil {
		log.Error("failed to store confirmation token", slog.Any("error", err))
		return domain.User{}, err
	}

	// 4. Email the link. A failed send leaves the token row behind; the
	// housekeeping sweep clears it after expiry.
	if err := s.Mail.SendConfirmation(ctx, user.Email, value); err != nil {
		log.Error("failed to send confirmation email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}

	log.Info("user registered", slog.String("user_id", user.ID))

	user.PasswordHash = ""
	return user, nil
}

// ConfirmEmail redeems a confirmation token from the emailed link and marks
// the account's address as confirmed. The token is single use.
func (s *AuthService) ConfirmEmail(ctx context.Context, value string) error {
	log := slogx.FromContext(ctx)

	// 1. Tokens are globally unique by value, so the link alone is enough.
	token, err := s.Store.Tokens().GetTokenByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		log.Error("failed to fetch confirmation token", slog.Any("error", err))
		return err
	}

	// 2. A 2FA code value must not confirm an email.
	if token.Kind != domain.TokenKindValidation {
		return ErrInvalidToken
	}

	if token.Expired(s.now()) {
		return ErrInvalidToken
	}

	// 3. Confirm and consume atomically so a replayed link can't observe a
	// half-applied state.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().MarkEmailConfirmed(ctx, token.UserID); err != nil {
			return err
		}
		return tx.Tokens().ConsumeToken(ctx, token.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		log.Error("failed to confirm email",
			slog.String("user_id", token.UserID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("email confirmed", slog.String("user_id", token.UserID))
	return nil
}

// ValidateCredentials checks an email and password pair against the stored
// hash. An unknown email and a wrong password both come back as ok=false
// rather than an error, so callers cannot tell them apart. On success the
// returned user has the password hash stripped.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (domain.User, bool, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, false, nil
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, false, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("failed login attempt", slog.String("user_id", user.ID))
		return domain.User{}, false, nil
	}

	user.PasswordHash = ""
	return user, true, nil
}

// Login is the first half of authentication: it checks the password, then
// emails a 6-digit code. No token is issued here; the caller must present
// the code to VerifyTwoFactor. Returns the email the code was sent to.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Unknown email and wrong password are indistinguishable to the caller.
	user, ok, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	// 2. Unconfirmed accounts can't log in at all.
	if !user.EmailConfirmed {
		return "", ErrEmailNotConfirmed
	}

	// 3. Mint and store the 2FA code. Token values are globally unique, so a
	// code already outstanding for another user collides; re-roll a few
	// times before giving up.
	var code string
	for attempt := 0; ; attempt++ {
		code, err = s.generateOTP()
		if err != nil {
			log.Error("failed to generate 2fa code", slog.Any("error", err))
			return "", err
		}

		err = s.Store.Tokens().CreateToken(ctx, domain.OneTimeToken{
			ID:        idx.New().String(),
			UserID:    user.ID,
			Kind:      domain.TokenKindTwoFactor,
			Value:     code,
			ExpiresAt: now.Add(TwoFactorTokenTTL),
			CreatedAt: now,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrAlreadyExists) || attempt >= 2 {
			log.Error("failed to store 2fa token", slog.Any("error", err))
			return "", err
		}
	}

	// 4. Email the code, awaited like the confirmation mail.
	if err := s.Mail.SendTwoFactorCode(ctx, user.Email, code); err != nil {
		log.Error("failed to send 2fa email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("2fa code issued", slog.String("user_id", user.ID))
	return user.Email, nil
}

// VerifyTwoFactor is the second half of authentication: it redeems the
// emailed code and returns a signed access token. Codes are single use;
// consuming one twice fails even under concurrent attempts.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, email, code string) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve the account the code belongs to.
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCode
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return "", err
	}

	// 2. The code is scoped to (value, user, kind); another user's identical
	// code never matches.
	token, err := s.Store.Tokens().GetTokenForUser(ctx, code, user.ID, domain.TokenKindTwoFactor)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("2fa attempt with unknown code", slog.String("user_id", user.ID))
			return "", ErrInvalidCode
		}
		log.Error("failed to fetch 2fa token", slog.Any("error", err))
		return "", err
	}

	if token.Expired(s.now()) {
		return "", ErrInvalidCode
	}

	// 3. Consume first. The delete is the single-use gate: if a concurrent
	// request got here first, this returns not-found and we reject.
	if err := s.Store.Tokens().ConsumeToken(ctx, token.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCode
		}
		log.Error("failed to consume 2fa token", slog.Any("error", err))
		return "", err
	}

	// 4. Issue the access token.
	claims := jwtx.NewAccessClaims(
		user.ID,
		user.Email,
		domain.JoinRoles(user.Roles),
		s.AccessTTL,
		s.Issuer,
		s.now(),
	)

	signed, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", err
	}

	log.Info("login completed", slog.String("user_id", user.ID))
	return signed, nil
}
