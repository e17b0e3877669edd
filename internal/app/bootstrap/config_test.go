package bootstrap

import (
	"testing"

	"go.uber.org/zap"
)

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()

	ok := AppConfig{MongoURI: "mongodb://localhost:27017", AuditLogAdmin: "all"}
	if err := ValidateConfig(nil, ok, logger); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	badURI := AppConfig{MongoURI: "http://not-mongo", AuditLogAdmin: "all"}
	if err := ValidateConfig(nil, badURI, logger); err == nil {
		t.Error("expected error for non-mongodb URI")
	}

	badAudit := AppConfig{MongoURI: "mongodb://localhost:27017", AuditLogAdmin: "loud"}
	if err := ValidateConfig(nil, badAudit, logger); err == nil {
		t.Error("expected error for unknown audit_log_admin value")
	}
}
