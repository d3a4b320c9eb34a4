package meta

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"default", func(*Config) {}, ""},
		{"zero DFA states", func(c *Config) { c.MaxDFAStates = 0 }, "MaxDFAStates"},
		{"zero DFA states without DFA", func(c *Config) { c.MaxDFAStates = 0; c.EnableDFA = false }, ""},
		{"low determinization limit", func(c *Config) { c.DeterminizationLimit = 5 }, "DeterminizationLimit"},
		{"zero literals", func(c *Config) { c.MaxLiterals = 0 }, "MaxLiterals"},
		{"zero literals disabled", func(c *Config) { c.MaxLiterals = 0; c.EnableLiterals = false }, ""},
		{"tiny program", func(c *Config) { c.MaxProgramStates = 4 }, "MaxProgramStates"},
		{"deep recursion", func(c *Config) { c.MaxRecursionDepth = 5000 }, "MaxRecursionDepth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.wantField)
			}
		})
	}
}

func TestCompileWithConfig_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.MaxDFAStates = 0

	_, err := CompileWithConfig("a", config)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("CompileWithConfig error = %v, want *ConfigError", err)
	}
	if got, want := cerr.Error(), "linre: invalid config: MaxDFAStates: must be between 1 and 1,000,000"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
