// Package config loads caselens settings from a YAML file and CASELENS_*
// environment variables on top of model.DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/ppiankov/caselens/internal/model"
)

const envPrefix = "CASELENS"

// DefaultPath is ~/.caselens/config.yaml, or "" when the home directory is
// unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".caselens", "config.yaml")
}

// newViper maps nested keys like "llm.timeout_seconds" to
// CASELENS_LLM_TIMEOUT_SECONDS and registers every default so that env
// overrides apply to keys absent from the file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v, "", reflect.ValueOf(*model.DefaultConfig()))
	return v
}

func registerDefaults(v *viper.Viper, prefix string, val reflect.Value) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fv := val.Field(i)
		if fv.Kind() == reflect.Struct {
			registerDefaults(v, key, fv)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}

// Load reads the YAML file at path, applies CASELENS_* overrides and
// validates the result. An empty path means DefaultPath, which may be
// missing; an explicit path must exist.
func Load(path string) (*model.Config, error) {
	v := newViper()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: read %q: %w", path, err)
			}
		}
	}
	return finalize(v)
}

// LoadFromEnv builds a Config from defaults and CASELENS_* variables only.
func LoadFromEnv() (*model.Config, error) {
	return finalize(newViper())
}

// Used reports which file Load would read for path, or "" when none exists.
func Used(path string) string {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func finalize(v *viper.Viper) (*model.Config, error) {
	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
