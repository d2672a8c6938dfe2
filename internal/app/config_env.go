package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.EntityLabel, "SIREN_ENTITY_LABEL")
	setString(&cfg.EntitiesFile, "SIREN_ENTITIES_FILE")
	setString(&cfg.InputFormat, "SIREN_INPUT_FORMAT")
	setString(&cfg.CacheDir, "CACHE_DIR")

	if cfg.CacheMaxAge == 0 {
		if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.CacheMaxAge = d
			}
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.DisableRecognizer, "SIREN_NO_RECOGNIZER")
	setBool(&cfg.DisableSeparated, "SIREN_NO_SEPARATED")
	setBool(&cfg.IncludeInvalid, "SIREN_INCLUDE_INVALID")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}
