// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string for request-scoped queries (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - ServiceDatabaseURL: Connection for trusted operations (draw commit,
    guess verification); defaults to DatabaseURL
  - SessionSecret: Secret for session cookie signing and encryption (required)
  - SecureCookies: Mark the session cookie Secure
  - AllowedOrigins: CORS origins (empty allows any origin)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-service-d       Trusted database URL
	-session-secret  Session secret
	-secure-cookies  true/false
	-origins         Comma-separated CORS origins
	-env             Env file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	SERVICE_DATABASE_URL → -service-d
	SESSION_SECRET       → -session-secret
	COOKIE_SECURE        → -secure-cookies
	ALLOWED_ORIGINS      → -origins

CLI flags take precedence over environment variables. The env file is read
with godotenv before the fallback and never overrides variables that are
already set. A missing env file is not an error.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is neither sqlite nor postgres
  - SESSION_SECRET is missing
  - PORT or COOKIE_SECURE cannot be parsed
*/
package cliparse
