package health

import "context"

// CatalogChecker checks upstream catalog reachability.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// AssistantChecker checks message-generation provider availability.
type AssistantChecker interface {
	HealthCheck(ctx context.Context) error
}
