package cfg

import (
	"flag"
	"strings"
	"testing"
)

// validBase returns a Config with all fields set to valid values.
func validBase() Config {
	return Config{
		DrainSeconds:          60,
		ShutdownBudgetSeconds: 90,
		APIPort:               8080,
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse empty args: %v", err)
	}

	if c.DrainSeconds != 60 {
		t.Errorf("DrainSeconds = %d, want 60", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 90 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 90", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", c.APIPort)
	}
	if c.RulesFile != "" {
		t.Errorf("RulesFile = %q, want empty (built-in defaults)", c.RulesFile)
	}
	if c.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty (in-memory store)", c.DatabaseURL)
	}
}

func TestRegisterFlags_Override(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	args := []string{
		"-drain-seconds", "30",
		"-shutdown-budget-seconds", "120",
		"-http-port", "9090",
		"-rules-file", "/etc/casetriage/rules.yaml",
		"-database-url", "postgres://localhost/casetriage",
		"-slack-webhook-url", "https://hooks.slack.com/services/x",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	if c.DrainSeconds != 30 {
		t.Errorf("DrainSeconds = %d, want 30", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 120 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 120", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", c.APIPort)
	}
	if c.RulesFile != "/etc/casetriage/rules.yaml" {
		t.Errorf("RulesFile = %q, want /etc/casetriage/rules.yaml", c.RulesFile)
	}
	if c.DatabaseURL != "postgres://localhost/casetriage" {
		t.Errorf("DatabaseURL = %q", c.DatabaseURL)
	}
	if c.SlackWebhookURL != "https://hooks.slack.com/services/x" {
		t.Errorf("SlackWebhookURL = %q", c.SlackWebhookURL)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errSubstr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{
			name:   "minimum valid values",
			mutate: func(c *Config) { c.DrainSeconds, c.ShutdownBudgetSeconds, c.APIPort = 1, 2, 1 },
		},
		{
			name:   "maximum valid values",
			mutate: func(c *Config) { c.DrainSeconds, c.ShutdownBudgetSeconds, c.APIPort = 299, 300, 65535 },
		},
		{
			name:      "zero drain",
			mutate:    func(c *Config) { c.DrainSeconds = 0 },
			wantErr:   true,
			errSubstr: "DRAIN_SECONDS",
		},
		{
			name:      "drain too large",
			mutate:    func(c *Config) { c.DrainSeconds, c.ShutdownBudgetSeconds = 301, 300 },
			wantErr:   true,
			errSubstr: "DRAIN_SECONDS",
		},
		{
			name:      "zero shutdown budget",
			mutate:    func(c *Config) { c.ShutdownBudgetSeconds = 0 },
			wantErr:   true,
			errSubstr: "SHUTDOWN_BUDGET_SECONDS",
		},
		{
			name:      "budget not above drain",
			mutate:    func(c *Config) { c.DrainSeconds, c.ShutdownBudgetSeconds = 90, 90 },
			wantErr:   true,
			errSubstr: "must be greater than",
		},
		{
			name:      "zero port",
			mutate:    func(c *Config) { c.APIPort = 0 },
			wantErr:   true,
			errSubstr: "HTTP_PORT",
		},
		{
			name:      "port too large",
			mutate:    func(c *Config) { c.APIPort = 65536 },
			wantErr:   true,
			errSubstr: "HTTP_PORT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := validBase()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Validate() = %v, want substring %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
