// Package api provides the HTTP REST API and WebSocket server for the
// warehouse backend.
//
// It exposes authentication, material and stock CRUD, user management,
// report downloads, and a live activity feed to the dashboard.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
