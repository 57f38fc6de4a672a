// Package passgen scores password strength and generates random passwords.
// Scoring is a fixed heuristic rubric on a 0–100 scale; Estimate adds an
// advisory zxcvbn-based crack-time estimate on top.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	special   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Score rates a password from 0 to 100: length thresholds at 8/12/16
// characters, points per character class, and bonuses for mixing case and
// combining letters with digits.
func Score(password string) int {
	score := 0

	if len(password) >= 8 {
		score += 20
	}
	if len(password) >= 12 {
		score += 10
	}
	if len(password) >= 16 {
		score += 10
	}

	hasLower := containsAny(password, lowercase)
	hasUpper := containsAny(password, uppercase)
	hasDigit := containsAny(password, digits)
	hasSpecial := containsOther(password)

	if hasLower {
		score += 10
	}
	if hasUpper {
		score += 10
	}
	if hasDigit {
		score += 10
	}
	if hasSpecial {
		score += 10
	}

	if hasLower && hasUpper {
		score += 10
	}
	if hasDigit && (hasLower || hasUpper) {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Estimate is an advisory strength estimate from zxcvbn: a 0–4 score, the
// guessing entropy in bits, and a human-readable crack-time. It supplements
// Score for display and never gates policy decisions.
type Estimate struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy"`
	CrackTimeDisplay string  `json:"crack_time_display"`
}

// EstimateStrength runs the zxcvbn estimator over the password.
func EstimateStrength(password string) Estimate {
	m := zxcvbn.PasswordStrength(password, nil)
	return Estimate{
		Score:            m.Score,
		Entropy:          m.Entropy,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
}

// Generate returns a random password of the requested length drawn from
// lowercase, uppercase and digit classes, plus specials when requested.
// When length allows, the result is guaranteed to contain at least one
// character from every included class.
func Generate(length int, includeSpecial bool) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid password length: %d", length)
	}

	classes := []string{lowercase, uppercase, digits}
	if includeSpecial {
		classes = append(classes, special)
	}

	all := ""
	for _, c := range classes {
		all += c
	}

	out := make([]byte, 0, length)

	// One character per class first, so every requested class is present.
	if length >= len(classes) {
		for _, c := range classes {
			ch, err := randomChar(c)
			if err != nil {
				return "", err
			}
			out = append(out, ch)
		}
	}

	for len(out) < length {
		ch, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func containsAny(s, set string) bool {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(set); j++ {
			if s[i] == set[j] {
				return true
			}
		}
	}
	return false
}

// containsOther reports whether s has any character outside [A-Za-z0-9].
func containsOther(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return true
		}
	}
	return false
}
