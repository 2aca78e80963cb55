package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("BOT_TOKEN", "test_bot_token")
	os.Setenv("LEAKOSINT_API_TOKEN", "test_api_token")
	os.Setenv("DB_PASSWORD", "test_password")
	t.Cleanup(func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("LEAKOSINT_API_TOKEN")
		os.Unsetenv("DB_PASSWORD")
	})
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BotToken != "test_bot_token" {
		t.Errorf("BotToken = %q, want %q", cfg.BotToken, "test_bot_token")
	}
	if cfg.LeakOSINTToken != "test_api_token" {
		t.Errorf("LeakOSINTToken = %q, want %q", cfg.LeakOSINTToken, "test_api_token")
	}

	// Defaults
	if cfg.NewUserCoins != 1 {
		t.Errorf("NewUserCoins = %d, want 1", cfg.NewUserCoins)
	}
	if cfg.ReferralReward != 1 {
		t.Errorf("ReferralReward = %d, want 1", cfg.ReferralReward)
	}
	if cfg.SearchCost != 1 {
		t.Errorf("SearchCost = %d, want 1", cfg.SearchCost)
	}
	if len(cfg.AdminIDs) != 0 {
		t.Errorf("AdminIDs = %v, want empty", cfg.AdminIDs)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing BOT_TOKEN",
			envVars: map[string]string{
				"LEAKOSINT_API_TOKEN": "token",
				"DB_PASSWORD":         "password",
			},
		},
		{
			name: "Missing LEAKOSINT_API_TOKEN",
			envVars: map[string]string{
				"BOT_TOKEN":   "token",
				"DB_PASSWORD": "password",
			},
		},
		{
			name: "Missing DB_PASSWORD",
			envVars: map[string]string{
				"BOT_TOKEN":           "token",
				"LEAKOSINT_API_TOKEN": "token",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			_, err := LoadConfig()
			if err == nil {
				t.Error("LoadConfig() expected error for missing required field, got nil")
			}
		})
	}
}

func TestLoadConfig_AdminIDs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{name: "Empty", raw: "", want: nil},
		{name: "Single", raw: "42", want: []int64{42}},
		{name: "Multiple with spaces", raw: "42, 7,1001", want: []int64{42, 7, 1001}},
		{name: "Trailing comma", raw: "42,", want: []int64{42}},
		{name: "Non numeric", raw: "42,bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			os.Setenv("ADMIN_IDS", tt.raw)
			defer os.Unsetenv("ADMIN_IDS")

			cfg, err := LoadConfig()
			if tt.wantErr {
				if err == nil {
					t.Error("LoadConfig() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}

			if len(cfg.AdminIDs) != len(tt.want) {
				t.Fatalf("AdminIDs = %v, want %v", cfg.AdminIDs, tt.want)
			}
			for i, id := range tt.want {
				if cfg.AdminIDs[i] != id {
					t.Errorf("AdminIDs[%d] = %d, want %d", i, cfg.AdminIDs[i], id)
				}
			}
		})
	}
}

func TestValidate_BadAmounts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "Negative signing bonus", mutate: func(c *Config) { c.NewUserCoins = -1 }},
		{name: "Negative referral reward", mutate: func(c *Config) { c.ReferralReward = -5 }},
		{name: "Zero search cost", mutate: func(c *Config) { c.SearchCost = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				BotToken:       "token",
				LeakOSINTToken: "token",
				DBPassword:     "password",
				NewUserCoins:   1,
				ReferralReward: 1,
				SearchCost:     1,
			}
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "testuser",
		DBPassword: "testpass",
		DBName:     "testdb",
		DBSSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
