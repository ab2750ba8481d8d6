package repository

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/pkg/errors"
)

type stubRunner struct {
	err error
}

func (s *stubRunner) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &neo4j.EagerResult{}, nil
}

func TestRegisterMapsConstraintViolationToConflict(t *testing.T) {
	runner := &stubRunner{err: &neo4j.Neo4jError{
		Code: constraintViolationCode,
		Msg:  "node already exists with username",
	}}
	repo := NewNeo4jUserRepository(runner)

	_, err := repo.Register(context.Background(), &entity.GraphUser{Username: "alice"})
	assert.True(t, errors.Is(err, "CONFLICT"))
}

// A store outage must surface as an internal failure, not as a
// duplicate-username rejection.
func TestRegisterKeepsTransportErrorsInternal(t *testing.T) {
	runner := &stubRunner{err: &neo4j.Neo4jError{
		Code: "Neo.TransientError.General.DatabaseUnavailable",
		Msg:  "database is unavailable",
	}}
	repo := NewNeo4jUserRepository(runner)

	_, err := repo.Register(context.Background(), &entity.GraphUser{Username: "alice"})
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))

	repo = NewNeo4jUserRepository(&stubRunner{err: assert.AnError})
	_, err = repo.Register(context.Background(), &entity.GraphUser{Username: "alice"})
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
}
