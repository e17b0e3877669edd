package groups

import "github.com/go-chi/chi/v5"

// Routes mounts the group API under the prefix chosen by the caller.
func Routes(r chi.Router, h *Handler) {
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.ServeVisibleGroups)
		r.Post("/", h.HandleCreateGroup)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.ServeGroup)
			r.Patch("/", h.HandleUpdateGroup)
			r.Delete("/", h.HandleDeleteGroup)

			r.Get("/children", h.ServeChildren)
			r.Get("/ancestors", h.ServeAncestors)
			r.Put("/parent", h.HandleSetParent)
			r.Put("/visibility", h.HandleSetVisibility)
			r.Put("/criteria", h.HandleSetCriteria)

			r.Post("/members", h.HandleAddMember)
			r.Delete("/members/{userID}", h.HandleRemoveMember)
			r.Put("/members/{userID}/role", h.HandleSetMemberRole)

			r.Post("/admins/{userID}", h.HandleGrantAdmin)
			r.Delete("/admins/{userID}", h.HandleRevokeAdmin)

			r.Get("/access/{userID}", h.ServeAccess)
			r.Get("/audit", h.ServeAuditLog)
		})
	})
}
