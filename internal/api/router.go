package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/warehouse-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	admin := policy{Roles: []auth.Role{auth.RoleAdmin}}
	floor := []auth.Role{auth.RoleAdmin, auth.RoleWarehouseWorker}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)

			// WS ticket requires authentication — the ticket carries the
			// caller's identity to the WebSocket connection
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Material endpoints
			r.Route("/materials", func(r chi.Router) {
				r.Get("/", s.handleListMaterials)
				r.With(s.requirePolicy(policy{
					Roles:       admin.Roles,
					Permissions: []string{auth.PermMaterialCreate},
				})).Post("/", s.handleCreateMaterial)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetMaterial)
					r.With(s.requirePolicy(policy{
						Roles:       admin.Roles,
						Permissions: []string{auth.PermMaterialUpdate},
					})).Patch("/", s.handleUpdateMaterial)
					r.With(s.requirePolicy(policy{
						Roles:       admin.Roles,
						Permissions: []string{auth.PermMaterialDelete},
					})).Delete("/", s.handleDeleteMaterial)
				})
			})

			// Stock endpoints
			r.Route("/stocks", func(r chi.Router) {
				r.Get("/", s.handleListStocks)
				r.Get("/material/{materialId}", s.handleListStocksByMaterial)
				r.With(s.requirePolicy(policy{
					Roles:       floor,
					Permissions: []string{auth.PermStockCreate},
				})).Post("/", s.handleCreateStock)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetStock)
					r.With(s.requirePolicy(policy{
						Roles:       floor,
						Permissions: []string{auth.PermStockUpdate},
					})).Patch("/", s.handleUpdateStock)
					r.With(s.requirePolicy(policy{
						Roles:       admin.Roles,
						Permissions: []string{auth.PermStockDelete},
					})).Delete("/", s.handleDeleteStock)
				})
			})

			// User management (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(s.requirePolicy(admin))
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleCreateUser)
				r.Get("/{id}", s.handleGetUser)
				r.Patch("/{id}", s.handleUpdateUser)
				r.Delete("/{id}", s.handleDeleteUser)
			})

			// Report downloads (admin only)
			r.Route("/reports", func(r chi.Router) {
				r.Use(s.requirePolicy(admin))
				r.Get("/materials.csv", s.handleMaterialsCSV)
				r.Get("/materials.pdf", s.handleMaterialsPDF)
				r.Get("/stocks.csv", s.handleStocksCSV)
				r.Get("/stocks.pdf", s.handleStocksPDF)
			})

			// Audit trail (admin only)
			r.With(s.requirePolicy(admin)).Get("/audit", s.handleListAuditLogs)
		})

		// WebSocket upgrade. Browsers cannot set an Authorization header
		// here; auth is a single-use ticket minted by /auth/ws-ticket.
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
