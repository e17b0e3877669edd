// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CampusConnect.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, audit_log_admin, etc.
//   - Environment variables: CAMPUSCONNECT_MONGO_URI, CAMPUSCONNECT_AUDIT_LOG_ADMIN, etc.
//   - Command-line flags: --mongo_uri, --audit_log_admin, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campus_connect", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Group admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Base URL for absolute links in responses
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL the service is reachable at"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, CAMPUSCONNECT_* for app)
// and command-line flags, with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPUSCONNECT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		AuditLogAdmin:    appValues.String("audit_log_admin"),
		BaseURL:          appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.AuditLogAdmin {
	case "", "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log_admin must be 'all', 'db', 'log', or 'off', got %q", appCfg.AuditLogAdmin)
	}

	return nil
}
