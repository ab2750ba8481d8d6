package repository

import (
	"context"
	stderrors "errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/internal/infrastructure/graphdb"
	"fleamarkt/pkg/errors"
)

const constraintViolationCode = "Neo.ClientError.Schema.ConstraintValidationFailed"

type neo4jUserRepository struct {
	runner graphdb.Runner
}

func NewNeo4jUserRepository(runner graphdb.Runner) repository.GraphUserRepository {
	return &neo4jUserRepository{runner: runner}
}

func (r *neo4jUserRepository) Upsert(ctx context.Context, user *entity.GraphUser) (*entity.GraphUser, error) {
	query := "MERGE (u:User {username: $username}) " +
		"SET u.email = $email, u.full_name = $full_name, u.is_active = $is_active " +
		"RETURN u"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"is_active": user.IsActive,
	})
	if err != nil {
		return nil, errors.Internal("Failed to upsert user", err)
	}
	props := singleNodeProps(result, "u")
	if props == nil {
		return nil, errors.Internal("Failed to upsert user", nil)
	}
	return graphUserFromProps(props), nil
}

func (r *neo4jUserRepository) Register(ctx context.Context, user *entity.GraphUser) (*entity.GraphUser, error) {
	query := "CREATE (u:User {username: $username, email: $email, full_name: $full_name, " +
		"hashed_password: $hashed_password, is_active: true, is_admin: false}) " +
		"RETURN u"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"username":        user.Username,
		"email":           user.Email,
		"full_name":       user.FullName,
		"hashed_password": user.HashedPassword,
	})
	if err != nil {
		// The unique constraint on username turns duplicate registration
		// into a constraint-violation failure; anything else is a store
		// problem and must not look like a duplicate to the caller.
		var neoErr *neo4j.Neo4jError
		if stderrors.As(err, &neoErr) && neoErr.Code == constraintViolationCode {
			return nil, errors.Conflict("Username already registered")
		}
		return nil, errors.Internal("Failed to register user", err)
	}
	props := singleNodeProps(result, "u")
	if props == nil {
		return nil, errors.Internal("Failed to register user", nil)
	}
	return graphUserFromProps(props), nil
}

func (r *neo4jUserRepository) GetByUsername(ctx context.Context, username string) (*entity.GraphUser, error) {
	result, err := r.runner.Run(ctx, "MATCH (u:User {username: $username}) RETURN u", map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return nil, errors.Internal("Failed to get user", err)
	}
	props := singleNodeProps(result, "u")
	if props == nil {
		return nil, errors.NotFound("User", nil)
	}
	return graphUserFromProps(props), nil
}

func (r *neo4jUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.GraphUser, error) {
	query := "MATCH (u:User) WHERE u.username = $identifier OR u.email = $identifier RETURN u"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"identifier": identifier,
	})
	if err != nil {
		return nil, errors.Internal("Failed to get user", err)
	}
	props := singleNodeProps(result, "u")
	if props == nil {
		return nil, errors.NotFound("User", nil)
	}
	return graphUserFromProps(props), nil
}

func (r *neo4jUserRepository) List(ctx context.Context, skip, limit int) ([]*entity.GraphUser, error) {
	query := "MATCH (u:User) RETURN u ORDER BY u.username SKIP $skip LIMIT $limit"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"skip":  int64(skip),
		"limit": int64(limit),
	})
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}

	users := []*entity.GraphUser{}
	for _, record := range result.Records {
		if props := recordNodeProps(record, "u"); props != nil {
			users = append(users, graphUserFromProps(props))
		}
	}
	return users, nil
}
