package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/bizdir/internal/flagx"
)

// Duration accepts either a Go duration string ("15m") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig mirrors Config for JSON files. Pointer fields distinguish
// "absent" from "zero" so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP *string   `json:"endpoint_addr_http"`
	EndpointAddrGRPC *string   `json:"endpoint_addr_grpc"`
	DatabaseDSN      *string   `json:"database_dsn"`
	SecretKey        *string   `json:"secret_key"`
	BcryptCost       *int      `json:"bcrypt_cost"`
	LogLevel         *string   `json:"log_level"`
	S3RootUser       *string   `json:"s3_root_user"`
	S3RootPassword   *string   `json:"s3_root_password"`
	S3Bucket         *string   `json:"s3_bucket"`
	S3Region         *string   `json:"s3_region"`
	S3BaseEndpoint   *string   `json:"s3_base_endpoint"`
	S3PresignTTL     *Duration `json:"s3_presign_ttl"`
}

// parseJson overlays values from the file named by -c/-config in args.
// Without such a flag nothing happens.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.S3PresignTTL != nil {
		config.S3PresignTTL = c.S3PresignTTL.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
