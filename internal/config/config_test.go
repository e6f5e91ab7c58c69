package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("JWT_SECRET_KEY", "this_is_a_test_secret_key_with_32_chars_minimum")
	os.Setenv("TRANSFER_ALERT_FLOOR", "500000")
	defer func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("JWT_SECRET_KEY")
		os.Unsetenv("TRANSFER_ALERT_FLOOR")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}
	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want default 8080", cfg.AppPort)
	}
	if cfg.TransferAlertFloor != 500000 {
		t.Errorf("TransferAlertFloor = %d, want 500000", cfg.TransferAlertFloor)
	}
	if cfg.GetSyncTimeout() != 15*time.Second {
		t.Errorf("GetSyncTimeout() = %v, want 15s default", cfg.GetSyncTimeout())
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing DB_PASSWORD",
			envVars: map[string]string{
				"JWT_SECRET_KEY": "this_is_a_test_secret_key_with_32_chars_minimum",
			},
		},
		{
			name: "Missing JWT_SECRET_KEY",
			envVars: map[string]string{
				"DB_PASSWORD": "password",
			},
		},
		{
			name: "Short JWT_SECRET_KEY",
			envVars: map[string]string{
				"DB_PASSWORD":    "password",
				"JWT_SECRET_KEY": "too_short",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() error = nil, want validation failure")
			}
		})
	}
}

func TestLoadConfig_InvalidOpsChatID(t *testing.T) {
	os.Setenv("DB_PASSWORD", "password")
	os.Setenv("JWT_SECRET_KEY", "this_is_a_test_secret_key_with_32_chars_minimum")
	os.Setenv("OPS_CHAT_ID", "not_a_number")
	defer func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("JWT_SECRET_KEY")
		os.Unsetenv("OPS_CHAT_ID")
	}()

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() error = nil, want OPS_CHAT_ID parse failure")
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	cfg := &Config{
		AppEnv:    "production",
		DBSSLMode: "disable",
		JWTSecret: "this_is_a_test_secret_key_with_32_chars_minimum",
	}
	if err := cfg.ValidateProductionSecurity(); err == nil {
		t.Error("ValidateProductionSecurity() = nil with sslmode disable, want error")
	}

	cfg.DBSSLMode = "require"
	if err := cfg.ValidateProductionSecurity(); err != nil {
		t.Errorf("ValidateProductionSecurity() error = %v", err)
	}

	cfg.AppEnv = "development"
	cfg.DBSSLMode = "disable"
	if err := cfg.ValidateProductionSecurity(); err != nil {
		t.Errorf("ValidateProductionSecurity() error = %v outside production", err)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "liveroom",
		DBPassword: "secret",
		DBName:     "liveroom_db",
		DBSSLMode:  "require",
	}
	want := "host=db.internal port=5433 user=liveroom password=secret dbname=liveroom_db sslmode=require"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
