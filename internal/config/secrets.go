package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields
// replaced by the redaction placeholder "***". Use this when logging or
// printing the active configuration so secrets are never accidentally
// exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	redact(&out.Wallet.Passphrase)
	redact(&out.Redis.Password)
	redact(&out.Postgres.DSN)
	redact(&out.Postgres.Password)

	// Copy slices so callers cannot mutate the original through the
	// redacted copy.
	if cfg.Gateway.Accounts != nil {
		out.Gateway.Accounts = make([]string, len(cfg.Gateway.Accounts))
		copy(out.Gateway.Accounts, cfg.Gateway.Accounts)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
