// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns the server Config:

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadEnvFile reads a .env file with github.com/joho/godotenv. Variables
already in the environment win, and a missing file is ignored.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Archive connection string (optional; empty keeps nothing)
  - DatabaseType: postgres, sqlite or redis (inferred from the URL)
  - AdminPassword: Bearer token for the admin API (required)
  - ResendAPIKey: Mail provider key (optional; empty skips email)
  - RecipientEmail: Receives operator notifications (required with a key)
  - FromEmail: Sender address
  - CatalogPath: Question catalog YAML (default: built in)
  - SendTimeout: Delivery timeout per submission (default: 15s)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_PASSWORD → --admin-password
	RESEND_API_KEY → --resend-key
	RECIPIENT_EMAIL → --recipient
	FROM_EMAIL     → --from
	CATALOG_PATH   → --catalog
	SEND_TIMEOUT   → --send-timeout

CLI flags take precedence over environment variables.

# Client

ParseClientFlags configures cmd/respond:

	--server    Server URL (FACILITY_VISION_SERVER, default http://localhost:3318)
	--autosave  Progress directory, or a file ending in .db for SQLite
	--catalog   Question catalog YAML
	--timeout   Submission timeout
*/
package cliparse
