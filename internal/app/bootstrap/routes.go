// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	groupsfeature "github.com/dhanushkumarms/campusconnect/internal/app/features/groups"
	healthfeature "github.com/dhanushkumarms/campusconnect/internal/app/features/health"
	"github.com/dhanushkumarms/campusconnect/internal/app/store/audit"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/auditlog"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. CampusConnect mounts the health check
// endpoint and the group API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	auditLogger := auditlog.New(
		audit.New(deps.MongoDatabase),
		logger,
		auditlog.Config{Admin: appCfg.AuditLogAdmin},
	)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Group hierarchy, membership, and access API
	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, auditLogger, logger)
	groupsfeature.Routes(r, groupsHandler)

	return r, nil
}
