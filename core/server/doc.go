// Package server holds the HTTP server configuration.
//
// The serve command owns the fiber app; this package only defines how it is
// configured.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key checked by the auth
// middleware (auth is disabled when empty) and the graceful shutdown timeout.
//
// # Usage
//
//	app.Listen(cfg.Server.Address())
package server
