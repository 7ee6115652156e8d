package auth

import (
	"log"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "FinanceTracker"

// Authenticator wraps TOTP secret provisioning and code checks for the
// authenticator-app method.
type Authenticator struct{}

// GenerateSecret provisions a new TOTP secret and returns the otpauth URI
// alongside the raw secret key. SHA1 keeps the URI compatible with Google
// Authenticator.
func (g *Authenticator) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		log.Println("Error during totp secret generation:", err)
		return "", "", ErrInternalError
	}
	return key.URL(), key.Secret(), nil
}

func (g *Authenticator) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
