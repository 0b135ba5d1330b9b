// Package mail sends the transactional emails the signup and login flows
// depend on: the address confirmation link and the 2FA login code.
package mail

import "context"

// Notifier is the outbound email surface the services depend on. Tests plug
// in a capturing stub; production wires the SMTP implementation.
type Notifier interface {
	// SendConfirmation emails the address validation link for a fresh signup.
	SendConfirmation(ctx context.Context, to, token string) error

	// SendTwoFactorCode emails the 6-digit login code.
	SendTwoFactorCode(ctx context.Context, to, code string) error
}
