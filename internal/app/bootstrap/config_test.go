package bootstrap

import (
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "bloodlink",
		JWTSigningKey:   "a-perfectly-long-signing-key-0123456789",
		GeocoderBaseURL: "https://nominatim.openstreetmap.org",
		MatcherBaseURL:  "http://localhost:5000",
	}
}

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{
			name:    "valid prod config",
			env:     "prod",
			mutate:  func(c *AppConfig) {},
			wantErr: false,
		},
		{
			name:    "bad mongo uri",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.MongoURI = "http://not-mongo" },
			wantErr: true,
		},
		{
			name:    "short signing key outside dev",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.JWTSigningKey = "short" },
			wantErr: true,
		},
		{
			name:    "short signing key tolerated in dev",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.JWTSigningKey = "short" },
			wantErr: false,
		},
		{
			name:    "missing geocoder url",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.GeocoderBaseURL = "" },
			wantErr: true,
		},
		{
			name:    "missing matcher url",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.MatcherBaseURL = "" },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appCfg := validAppConfig()
			tc.mutate(&appCfg)
			coreCfg := &config.CoreConfig{Env: tc.env}

			err := ValidateConfig(coreCfg, appCfg, logger)
			if tc.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
