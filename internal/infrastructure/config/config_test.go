package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "standard configuration",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				Database: "testdb",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable",
		},
		{
			name: "production configuration",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				User:     "produser",
				Password: "securepass123",
				Database: "proddb",
				SSLMode:  "require",
			},
			want: "host=db.example.com port=5433 user=produser password=securepass123 dbname=proddb sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ConnectionString(); got != tt.want {
				t.Errorf("DatabaseConfig.ConnectionString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTypePatterns(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "empty string",
			raw:  "",
			want: map[string]string{},
		},
		{
			name: "single pair",
			raw:  "doc=/docs/*",
			want: map[string]string{"doc": "/docs/*"},
		},
		{
			name: "multiple pairs with spaces",
			raw:  "doc=/docs/*, report=/reports/[0-9]+",
			want: map[string]string{"doc": "/docs/*", "report": "/reports/[0-9]+"},
		},
		{
			name: "trailing comma tolerated",
			raw:  "doc=/docs/*,",
			want: map[string]string{"doc": "/docs/*"},
		},
		{
			name:    "missing separator",
			raw:     "doc",
			wantErr: true,
		},
		{
			name:    "empty type",
			raw:     "=/docs/*",
			wantErr: true,
		},
		{
			name:    "empty pattern",
			raw:     "doc=",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTypePatterns(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTypePatterns() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Errorf("ParseTypePatterns() = %v, want %v", got, tt.want)
				return
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseTypePatterns()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func()
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "successful load with password",
			setupEnv: func() {
				viper.Reset()
				viper.Set("DB_PASSWORD", "testpassword")
				viper.SetDefault("SERVER_HOST", "0.0.0.0")
				viper.SetDefault("SERVER_PORT", 8080)
				viper.SetDefault("DB_HOST", "localhost")
				viper.SetDefault("DB_PORT", 5432)
				viper.SetDefault("DB_USER", "authone")
				viper.SetDefault("DB_NAME", "authone_dev")
				viper.SetDefault("DB_SSLMODE", "disable")
				viper.SetDefault("CACHE_BACKEND", "memory")
			},
			wantErr: false,
			validateCfg: func(t *testing.T, cfg *Config) {
				if cfg.Server.Host != "0.0.0.0" {
					t.Errorf("Load() Server.Host = %v, want 0.0.0.0", cfg.Server.Host)
				}
				if cfg.Server.Port != 8080 {
					t.Errorf("Load() Server.Port = %v, want 8080", cfg.Server.Port)
				}
				if cfg.Database.Password != "testpassword" {
					t.Errorf("Load() Database.Password = %v, want testpassword", cfg.Database.Password)
				}
				if cfg.Cache.Backend != "memory" {
					t.Errorf("Load() Cache.Backend = %v, want memory", cfg.Cache.Backend)
				}
			},
		},
		{
			name: "missing password",
			setupEnv: func() {
				viper.Reset()
				viper.SetDefault("SERVER_HOST", "0.0.0.0")
			},
			wantErr: true,
		},
		{
			name: "matcher patterns parsed",
			setupEnv: func() {
				viper.Reset()
				viper.Set("DB_PASSWORD", "pass123")
				viper.Set("MATCHER_REGEX_ENABLED", true)
				viper.Set("MATCHER_TYPE_PATTERNS", "doc=/docs/*,model=/models/*")
			},
			wantErr: false,
			validateCfg: func(t *testing.T, cfg *Config) {
				if !cfg.Matcher.RegexEnabled {
					t.Error("Load() Matcher.RegexEnabled = false, want true")
				}
				if cfg.Matcher.TypePatterns["doc"] != "/docs/*" {
					t.Errorf("Load() Matcher.TypePatterns[doc] = %v, want /docs/*", cfg.Matcher.TypePatterns["doc"])
				}
				if cfg.Matcher.TypePatterns["model"] != "/models/*" {
					t.Errorf("Load() Matcher.TypePatterns[model] = %v, want /models/*", cfg.Matcher.TypePatterns["model"])
				}
			},
		},
		{
			name: "invalid matcher patterns",
			setupEnv: func() {
				viper.Reset()
				viper.Set("DB_PASSWORD", "pass123")
				viper.Set("MATCHER_TYPE_PATTERNS", "doc")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			defer viper.Reset()

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.validateCfg != nil && !tt.wantErr {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	originalWd, _ := os.Getwd()
	defer os.Chdir(originalWd)

	root, err := findProjectRoot()
	if err != nil {
		t.Errorf("findProjectRoot() error = %v, want nil", err)
		return
	}

	goModPath := root + "/go.mod"
	if _, err := os.Stat(goModPath); os.IsNotExist(err) {
		t.Errorf("findProjectRoot() returned %v, but go.mod does not exist at %v", root, goModPath)
	}
}
