package credentials

import (
	"fmt"
	"strings"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/cryptox"
)

// Codec seals records for storage and opens them for their owner. It owns
// the rule of which fields are ciphertext at rest: the password always, the
// two-factor seed when present, everything else plaintext.
type Codec struct {
	cipher *cryptox.Cipher
}

func NewCodec(cipher *cryptox.Cipher) *Codec {
	return &Codec{cipher: cipher}
}

// Seal validates the record and encrypts its sensitive fields in place.
// Missing required fields return common.ErrValidation before anything is
// encrypted. Category defaults to DefaultCategory.
func (c *Codec) Seal(rec *Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	if strings.TrimSpace(rec.Category) == "" {
		rec.Category = DefaultCategory
	}

	sealed, err := c.cipher.Seal(rec.Password)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}
	rec.Password = sealed

	if rec.TwoFactorSecret != "" {
		sealed, err := c.cipher.Seal(rec.TwoFactorSecret)
		if err != nil {
			return fmt.Errorf("seal two-factor secret: %w", err)
		}
		rec.TwoFactorSecret = sealed
	}

	return nil
}

// Open decrypts the sensitive fields in place. Any failure leaves the
// record untouched and returns a common.ErrDecryption — callers never see
// a half-decrypted record.
func (c *Codec) Open(rec *Record) error {
	password, err := c.cipher.Open(rec.Password)
	if err != nil {
		return fmt.Errorf("open password: %w", err)
	}

	twoFactor := ""
	if rec.TwoFactorSecret != "" {
		twoFactor, err = c.cipher.Open(rec.TwoFactorSecret)
		if err != nil {
			return fmt.Errorf("open two-factor secret: %w", err)
		}
	}

	rec.Password = password
	rec.TwoFactorSecret = twoFactor
	return nil
}

func validate(rec *Record) error {
	missing := []string{}
	for _, f := range []struct{ name, value string }{
		{"serviceName", rec.ServiceName},
		{"serviceUrl", rec.ServiceURL},
		{"username", rec.Username},
		{"email", rec.Email},
		{"password", rec.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
