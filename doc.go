// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Secret Santa API server.

Secret Santa runs gift exchanges: an admin creates a group, friends join
with an invite code, and a one-time draw gives everyone a giftee. Then the
guessing game starts: scan the QR code of the person you think is your
santa. Each participant has 3 lives for wrong guesses.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SESSION_SECRET=... DATABASE_URL=santa.db go run .

Or with flags against PostgreSQL:

	go run . -t postgres -d "postgres://..." -session-secret ...

A .env file in the working directory is loaded first; real environment
variables win over it and flags win over both.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SECRET (-session-secret): Secret for session cookies

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SERVICE_DATABASE_URL (-service-d): Connection for the trusted draw
    and guess path (default: DATABASE_URL)
  - COOKIE_SECURE (-secure-cookies): Mark session cookies Secure
  - ALLOWED_ORIGINS (-origins): Comma-separated CORS origins

# Architecture

The server uses a handler-based architecture with dependency injection:

  - santa: draw, assignment, guess verification, lives
  - store: SQL, split into caller-scoped and trusted views
  - handlers: HTTP request handlers (profiles, groups, game, wishlist)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, sessions, logging, JSON helpers
  - models: Request/response types
  - auth: IDs, QR tokens and challenges, session cookies
  - db: Connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
