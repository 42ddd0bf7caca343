package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays values from environment variables. JWT_SECRET is the
// variable name the deployment scripts already use for the signing key.
func parseEnv(config *Config, lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		return nil
	}

	stringVars := map[string]*string{
		"HTTP_ADDR":        &config.EndpointAddrHTTP,
		"GRPC_ADDR":        &config.EndpointAddrGRPC,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"JWT_SECRET":       &config.SecretKey,
		"LOG_LEVEL":        &config.LogLevel,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for name, dst := range stringVars {
		if v, ok := lookupEnv(name); ok {
			*dst = v
		}
	}

	if v, ok := lookupEnv("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v, ok := lookupEnv("S3_PRESIGN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("S3_PRESIGN_TTL: %w", err)
		}
		config.S3PresignTTL = d
	}
	return nil
}
