package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// MergeFiles layers cfg.IniFiles then cfg.JSONFiles onto cfg, each file
// overriding only the keys it sets (spec.md §6's `--ini`/`--json`,
// matching the teacher's own nabbar-golib/viper + nabbar-golib/config
// pairing: a thin viper merge pass over the same flag set, not a
// competing configuration engine). The merged values are unmarshalled
// onto the flag-populated cfg, so a key a file sets overrides the flag
// value for it, and flag values are not re-applied afterwards; fields no
// file sets keep their flag value. Callers run BuildCommand's flag
// parsing before calling this.
func MergeFiles(cfg *Config) error {
	v := viper.New()

	for _, path := range cfg.IniFiles {
		if err := mergeOne(v, path, "ini"); err != nil {
			return err
		}
	}
	for _, path := range cfg.JSONFiles {
		if err := mergeOne(v, path, "json"); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func mergeOne(v *viper.Viper, path, kind string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = kind
	}
	v.SetConfigFile(path)
	v.SetConfigType(ext)
	if err := v.MergeInConfig(); err != nil {
		return ErrorFileMerge.Error(err)
	}
	return nil
}
