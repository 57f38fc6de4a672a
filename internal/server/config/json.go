package config

import (
	"encoding/json"
	"os"

	"github.com/sbuga/passvault/internal/flagx"
	"github.com/sbuga/passvault/internal/timex"
)

// JSONConfig is an intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which parses both string
// values such as "168h" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JSONConfig struct {
	Address                *string         `json:"address"`
	DatabaseDSN            *string         `json:"database_dsn"`
	EncryptionKey          *string         `json:"encryption_key"`
	TokenSecret            *string         `json:"token_secret"`
	TokenValidity          *timex.Duration `json:"token_validity"`
	BcryptCost             *int            `json:"bcrypt_cost"`
	MasterPasswordHash     *string         `json:"master_password_hash"`
	MasterPasswordSalt     *string         `json:"master_password_salt"`
	InsecureMasterFallback *bool           `json:"insecure_master_fallback"`
	S3RootUser             *string         `json:"s3_root_user"`
	S3RootPassword         *string         `json:"s3_root_password"`
	S3Bucket               *string         `json:"s3_bucket"`
	S3Region               *string         `json:"s3_region"`
	S3BaseEndpoint         *string         `json:"s3_base_endpoint"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c/-config flags into cfg. Absent file means no overlay; an unreadable or
// invalid file panics, since starting a vault on half-read configuration is
// worse than not starting.
func parseJSON(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.Address != nil {
		cfg.Address = *c.Address
	}
	if c.DatabaseDSN != nil {
		cfg.DatabaseDSN = *c.DatabaseDSN
	}
	if c.EncryptionKey != nil {
		cfg.EncryptionKey = *c.EncryptionKey
	}
	if c.TokenSecret != nil {
		cfg.TokenSecret = *c.TokenSecret
	}
	if c.TokenValidity != nil {
		cfg.TokenValidity = c.TokenValidity.Duration
	}
	if c.BcryptCost != nil {
		cfg.BcryptCost = *c.BcryptCost
	}
	if c.MasterPasswordHash != nil {
		cfg.MasterPasswordHash = *c.MasterPasswordHash
	}
	if c.MasterPasswordSalt != nil {
		cfg.MasterPasswordSalt = *c.MasterPasswordSalt
	}
	if c.InsecureMasterFallback != nil {
		cfg.InsecureMasterFallback = *c.InsecureMasterFallback
	}
	if c.S3RootUser != nil {
		cfg.S3RootUser = *c.S3RootUser
	}
	if c.S3RootPassword != nil {
		cfg.S3RootPassword = *c.S3RootPassword
	}
	if c.S3Bucket != nil {
		cfg.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		cfg.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		cfg.S3BaseEndpoint = *c.S3BaseEndpoint
	}
}
