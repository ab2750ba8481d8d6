package main

import (
	"context"
	"flag"
	"log"
	"time"

	"fleamarkt/internal/infrastructure/graphdb"
	"fleamarkt/internal/infrastructure/mongodb"
	"fleamarkt/internal/migration"
	"fleamarkt/pkg/config"
	"fleamarkt/pkg/logger"
)

func main() {
	target := flag.String("target", "all", "migration target: mongodb, neo4j or all")
	flag.Parse()

	if *target != "mongodb" && *target != "neo4j" && *target != "all" {
		log.Fatalf("Invalid -target %q: must be mongodb, neo4j or all", *target)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	sourceDB, err := migration.Open(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to relational source: %v", err)
	}

	logger.Info("Loading relational snapshot")
	snapshot, err := migration.Load(sourceDB)
	if err != nil {
		log.Fatalf("Failed to load relational snapshot: %v", err)
	}
	logger.Info("Snapshot loaded: %d users, %d products, %d conversations",
		len(snapshot.Users), len(snapshot.Products), len(snapshot.Conversations))

	if *target == "mongodb" || *target == "all" {
		if err := migrateDocuments(ctx, cfg, snapshot); err != nil {
			log.Fatalf("MongoDB migration failed: %v", err)
		}
	}
	if *target == "neo4j" || *target == "all" {
		if err := migrateGraph(ctx, cfg, snapshot); err != nil {
			log.Fatalf("Neo4j migration failed: %v", err)
		}
	}
}

func migrateDocuments(ctx context.Context, cfg *config.Config, snapshot *migration.Snapshot) error {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongodb.Connect(connectCtx, cfg.MongoDBURL, cfg.MongoDBDatabase)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	if err := client.EnsureIndexes(connectCtx); err != nil {
		return err
	}

	upserts, report := migration.BuildDocumentUpserts(snapshot)
	if err := migration.ApplyDocuments(ctx, client.Database(), upserts); err != nil {
		return err
	}

	logger.Info("MongoDB migration complete:")
	logger.Info("  - %d users", report.Users)
	logger.Info("  - %d products (%d skipped, dangling seller)", report.Products, report.SkippedProducts)
	logger.Info("  - %d conversations (%d skipped, <2 participants)", report.Conversations, report.SkippedConversations)
	logger.Info("  - %d users with favorites", report.UsersWithFavorites)
	return nil
}

func migrateGraph(ctx context.Context, cfg *config.Config, snapshot *migration.Snapshot) error {
	executor, err := graphdb.NewExecutor(cfg.Neo4jURL, cfg.Neo4jUser, cfg.Neo4jPassword, "neo4j")
	if err != nil {
		return err
	}
	defer executor.Close(ctx)

	if err := graphdb.InitSchema(ctx, executor); err != nil {
		return err
	}

	ops, report := migration.BuildGraphOps(snapshot)
	if err := migration.ApplyGraph(ctx, executor, ops); err != nil {
		return err
	}
	if err := migration.ApplyGraph(ctx, executor, migration.DerivedEdgeOps()); err != nil {
		return err
	}

	logger.Info("Neo4j migration complete:")
	logger.Info("  - %d users", report.Users)
	logger.Info("  - %d products (%d skipped, dangling seller)", report.Products, report.SkippedProducts)
	logger.Info("  - %d FAVORITED edges (%d skipped)", report.Favorites, report.SkippedFavorites)
	logger.Info("  - %d VIEWED edges (%d skipped)", report.Views, report.SkippedViews)
	logger.Info("  - %d conversations projected to MESSAGED (%d skipped)", report.MessagedConversations, report.SkippedConversations)
	return nil
}
