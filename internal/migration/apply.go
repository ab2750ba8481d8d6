package migration

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"fleamarkt/internal/infrastructure/graphdb"
)

// ApplyDocuments runs the document upserts in order. The mappers emit
// users before products and base state before the favorites rebuild, so
// ordering matters.
func ApplyDocuments(ctx context.Context, db *mongo.Database, upserts []DocumentUpsert) error {
	for _, u := range upserts {
		update := bson.M{"$set": u.Set}
		if len(u.SetOnInsert) > 0 {
			update["$setOnInsert"] = u.SetOnInsert
		}
		opts := options.UpdateOne().SetUpsert(u.Upsert)
		if _, err := db.Collection(u.Collection).UpdateOne(ctx, u.Filter, update, opts); err != nil {
			return fmt.Errorf("apply upsert to %s: %w", u.Collection, err)
		}
	}
	return nil
}

// ApplyGraph runs the Cypher ops in order against the graph store.
func ApplyGraph(ctx context.Context, runner graphdb.Runner, ops []CypherOp) error {
	for _, op := range ops {
		if _, err := runner.Run(ctx, op.Query, op.Params); err != nil {
			return fmt.Errorf("apply graph op: %w", err)
		}
	}
	return nil
}
