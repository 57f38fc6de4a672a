package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Unset
// variables leave the current value untouched; unparsable numeric or
// duration values are ignored rather than guessed at.
func parseEnv(cfg *Config) {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	setString("ADDRESS", &cfg.Address)
	setString("DATABASE_DSN", &cfg.DatabaseDSN)
	setString("ENCRYPTION_KEY", &cfg.EncryptionKey)
	setString("TOKEN_SECRET", &cfg.TokenSecret)
	setString("MASTER_PASSWORD_HASH", &cfg.MasterPasswordHash)
	setString("MASTER_PASSWORD_SALT", &cfg.MasterPasswordSalt)
	setString("S3_ROOT_USER", &cfg.S3RootUser)
	setString("S3_ROOT_PASSWORD", &cfg.S3RootPassword)
	setString("S3_BUCKET", &cfg.S3Bucket)
	setString("S3_REGION", &cfg.S3Region)
	setString("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)

	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenValidity = d
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("INSECURE_MASTER_FALLBACK"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.InsecureMasterFallback = b
		}
	}
}
