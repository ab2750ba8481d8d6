package graphdb

import (
	"context"
	"time"

	"fleamarkt/pkg/logger"
)

const (
	schemaInitAttempts = 20
	schemaInitDelay    = time.Second
)

var schemaStatements = []string{
	"CREATE CONSTRAINT user_username IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE",
	"CREATE CONSTRAINT product_id IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE",
	"CREATE INDEX product_status IF NOT EXISTS FOR (p:Product) ON (p.status)",
}

// InitSchema creates the graph constraints and indexes, retrying a fixed
// number of attempts with a fixed delay while the store comes up. The last
// failure is propagated if every attempt is exhausted. This is a startup
// gate, not a steady-state retry policy.
func InitSchema(ctx context.Context, runner Runner) error {
	var lastErr error
	for attempt := 1; attempt <= schemaInitAttempts; attempt++ {
		lastErr = runStatements(ctx, runner)
		if lastErr == nil {
			return nil
		}
		logger.Warn("graph schema init attempt %d/%d failed: %v", attempt, schemaInitAttempts, lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(schemaInitDelay):
		}
	}
	return lastErr
}

func runStatements(ctx context.Context, runner Runner) error {
	for _, stmt := range schemaStatements {
		if _, err := runner.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}
