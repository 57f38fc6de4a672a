package credentials

import (
	"errors"
	"strings"
	"testing"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/cryptox"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	cipher, err := cryptox.NewCipher("codec-test-key")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	return NewCodec(cipher)
}

func validRecord() *Record {
	return &Record{
		ServiceName: "GitHub",
		ServiceURL:  "https://github.com",
		Username:    "jane",
		Email:       "jane@example.com",
		Password:    "hunter2hunter2",
	}
}

func TestCodec_SealOpenRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	rec := validRecord()
	rec.TwoFactorSecret = "JBSWY3DPEHPK3PXP"

	if err := codec.Seal(rec); err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if rec.Password == "hunter2hunter2" {
		t.Fatalf("password not encrypted")
	}
	if rec.TwoFactorSecret == "JBSWY3DPEHPK3PXP" {
		t.Fatalf("two-factor secret not encrypted")
	}
	if rec.ServiceName != "GitHub" || rec.Username != "jane" {
		t.Fatalf("non-sensitive field altered")
	}

	if err := codec.Open(rec); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if rec.Password != "hunter2hunter2" {
		t.Fatalf("password round-trip mismatch: %q", rec.Password)
	}
	if rec.TwoFactorSecret != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("two-factor round-trip mismatch: %q", rec.TwoFactorSecret)
	}
}

func TestCodec_SealDefaultsCategory(t *testing.T) {
	codec := newTestCodec(t)

	rec := validRecord()
	if err := codec.Seal(rec); err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if rec.Category != DefaultCategory {
		t.Fatalf("expected default category %q, got %q", DefaultCategory, rec.Category)
	}

	rec = validRecord()
	rec.Category = "Work"
	if err := codec.Seal(rec); err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if rec.Category != "Work" {
		t.Fatalf("explicit category overwritten: %q", rec.Category)
	}
}

func TestCodec_SealEmptyTwoFactorStaysEmpty(t *testing.T) {
	codec := newTestCodec(t)

	rec := validRecord()
	if err := codec.Seal(rec); err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if rec.TwoFactorSecret != "" {
		t.Fatalf("empty two-factor secret must stay empty, got %q", rec.TwoFactorSecret)
	}
	if err := codec.Open(rec); err != nil {
		t.Fatalf("Open error: %v", err)
	}
}

func TestCodec_SealMissingFields(t *testing.T) {
	codec := newTestCodec(t)

	mutations := map[string]func(*Record){
		"serviceName": func(r *Record) { r.ServiceName = "" },
		"serviceUrl":  func(r *Record) { r.ServiceURL = " " },
		"username":    func(r *Record) { r.Username = "" },
		"email":       func(r *Record) { r.Email = "" },
		"password":    func(r *Record) { r.Password = "" },
	}

	for field, mutate := range mutations {
		rec := validRecord()
		mutate(rec)
		err := codec.Seal(rec)
		if !errors.Is(err, common.ErrValidation) {
			t.Fatalf("%s missing: expected common.ErrValidation, got %v", field, err)
		}
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("%s missing: field not named in %q", field, err)
		}
	}
}

func TestCodec_OpenFailsWholeRecord(t *testing.T) {
	codec := newTestCodec(t)

	rec := validRecord()
	rec.TwoFactorSecret = "seed"
	if err := codec.Seal(rec); err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	// Corrupt only the two-factor field; the password is still intact.
	sealedPassword := rec.Password
	rec.TwoFactorSecret = "not-a-ciphertext"

	err := codec.Open(rec)
	if !errors.Is(err, common.ErrDecryption) {
		t.Fatalf("expected common.ErrDecryption, got %v", err)
	}
	if rec.Password != sealedPassword {
		t.Fatalf("record partially decrypted on failure")
	}
}

func TestCodec_OpenWrongKey(t *testing.T) {
	codec := newTestCodec(t)

	rec := validRecord()
	if err := codec.Seal(rec); err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	other, err := cryptox.NewCipher("a-different-key")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	if err := NewCodec(other).Open(rec); !errors.Is(err, common.ErrDecryption) {
		t.Fatalf("expected common.ErrDecryption under wrong key, got %v", err)
	}
}
