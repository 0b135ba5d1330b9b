package domain

import "time"

// Token kinds. A token row serves exactly one purpose and is deleted on use.
const (
	TokenKindValidation = "VALIDATION" // emailed link token for confirming an address
	TokenKindTwoFactor  = "TWO_FACTOR" // emailed 6-digit login code
)

// OneTimeToken is a single-use credential tied to a user: either an email
// confirmation token or a 2FA login code. Values are stored as issued.
type OneTimeToken struct {
	ID        string
	UserID    string
	Kind      string // TokenKindValidation or TokenKindTwoFactor
	Value     string // opaque token string or 6-digit code
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
// A token expiring exactly at now is still valid.
func (t OneTimeToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
