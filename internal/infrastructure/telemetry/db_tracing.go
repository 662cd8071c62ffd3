package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// InstrumentGORM registers otelgorm so every statement gets a client span on
// tp. Bound query variables are left out of span attributes.
func InstrumentGORM(db *gorm.DB, tp trace.TracerProvider) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithTracerProvider(tp),
		otelgorm.WithDBName(db.Dialector.Name()),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to register gorm tracing: %w", err)
	}
	return nil
}
