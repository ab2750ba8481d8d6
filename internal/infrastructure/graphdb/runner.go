package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner abstracts Cypher execution so repositories and the migration
// applier can be exercised against a fake in tests.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error)
}

// Executor is the process-scoped graph store handle backed by the Neo4j
// driver. One instance per process; released with Close at shutdown.
type Executor struct {
	driver neo4j.DriverWithContext
	dbName string
}

func NewExecutor(uri, username, password, dbName string) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Executor{driver: driver, dbName: dbName}, nil
}

func (e *Executor) Verify(ctx context.Context) error {
	return e.driver.VerifyConnectivity(ctx)
}

// Run executes a Cypher query through neo4j.ExecuteQuery, which handles
// session and transaction management and buffers the full result.
func (e *Executor) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.dbName),
	)
	if err != nil {
		return nil, fmt.Errorf("executing neo4j query: %w", err)
	}
	return result, nil
}

func (e *Executor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
