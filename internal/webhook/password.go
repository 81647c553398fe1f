package webhook

import (
	"crypto/rand"
	"math/big"
)

// PasswordSource records where the credential used for a webhook-created
// account came from. It is reported back to the webhook sender and tagged
// on the welcome email for support triage.
type PasswordSource string

const (
	PasswordUserProvided PasswordSource = "user-provided"
	PasswordSingleField  PasswordSource = "user-provided-single"
	PasswordConfirmOnly  PasswordSource = "user-provided-confirm-only"
	PasswordMismatch     PasswordSource = "generated-mismatch"
	PasswordGenerated    PasswordSource = "generated-default"
)

const (
	passwordChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"
	passwordLength = 12
)

// ResolvePassword picks the credential for a new account from the funnel's
// password pair. Matching fields win; a single populated field is used
// as-is; a mismatch or an empty pair falls back to a generated password.
func ResolvePassword(primary, confirm string) (string, PasswordSource) {
	switch {
	case primary != "" && confirm != "":
		if primary == confirm {
			return primary, PasswordUserProvided
		}
		return GeneratePassword(passwordLength), PasswordMismatch
	case primary != "":
		return primary, PasswordSingleField
	case confirm != "":
		return confirm, PasswordConfirmOnly
	default:
		return GeneratePassword(passwordLength), PasswordGenerated
	}
}

// GeneratePassword returns a random password of the given length drawn
// from upper/lower/digit/symbol characters. It uses crypto/rand with
// rejection-free sampling via rand.Int; a failing system entropy source is
// unrecoverable, so it panics rather than degrade to a weak generator.
func GeneratePassword(length int) string {
	max := big.NewInt(int64(len(passwordChars)))
	pw := make([]byte, length)
	for i := range pw {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("webhook: system entropy source unavailable: " + err.Error())
		}
		pw[i] = passwordChars[n.Int64()]
	}
	return string(pw)
}
