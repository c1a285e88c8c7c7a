package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// defaults holds the optional user defaults read from autostack.yml.
// A missing config file just means empty defaults.
type defaults struct {
	Backend    string
	Frontend   string
	WithDocker bool
	WithTests  bool
	WithCI     bool
}

// loadDefaults reads autostack.yml from the working directory or the user
// config directory, with AUTOSTACK_* environment overrides.
func loadDefaults() defaults {
	v := viper.New()
	v.SetConfigName("autostack")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "autostack"))
	}
	v.SetEnvPrefix("AUTOSTACK")
	v.AutomaticEnv()

	// The defaults file is optional.
	_ = v.ReadInConfig()

	return defaults{
		Backend:    v.GetString("defaults.backend"),
		Frontend:   v.GetString("defaults.frontend"),
		WithDocker: v.GetBool("defaults.with_docker"),
		WithTests:  v.GetBool("defaults.with_tests"),
		WithCI:     v.GetBool("defaults.with_ci"),
	}
}
