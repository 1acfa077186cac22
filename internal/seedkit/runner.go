package seedkit

import (
	"context"
	"fmt"

	"github.com/voxevo/voxevo/internal/adapters/embedding"
	"github.com/voxevo/voxevo/internal/adapters/registry"
	"github.com/voxevo/voxevo/pkg/logger"
)

// Run generates the configured fixture set through the production stores so
// the on-disk layout matches what the service reads.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get().Named("seedkit")
	stats := &Stats{}

	store, err := registry.NewJSONStore(config.UsersDir)
	if err != nil {
		return fmt.Errorf("open user registry: %w", err)
	}
	embeddings := embedding.NewStore(config.EmbeddingsDir, config.DeltasPath)

	// Age deltas first so playback works as soon as any user exists.
	deltas := generateDeltas(config.Dim)
	if err := embeddings.SaveDeltas(ctx, deltas); err != nil {
		return fmt.Errorf("write age deltas: %w", err)
	}
	stats.DeltasWritten = len(deltas)
	log.Info(ctx, "age deltas written",
		logger.String("path", config.DeltasPath),
		logger.Int("directions", stats.DeltasWritten),
		logger.Int("dim", config.Dim),
	)

	for i := 0; i < config.NumUsers; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("seed cancelled: %w", ctx.Err())
		default:
		}

		u := generateUser()
		if err := store.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", u.UserID, err)
		}
		stats.UsersCreated++

		numVersions := 1 + getRandomInt(config.MaxVersions)
		for j := 0; j < numVersions; j++ {
			v, vec := generateVersion(u, config.Dim)
			if err := embeddings.Save(ctx, v.EmbeddingPath, vec); err != nil {
				return fmt.Errorf("save embedding for %s: %w", u.UserID, err)
			}
			if err := store.AppendVersion(ctx, u.UserID, v); err != nil {
				return fmt.Errorf("append version for %s: %w", u.UserID, err)
			}
			stats.VersionsCreated++
		}

		if config.Verbose {
			log.Debug(ctx, "user seeded",
				logger.String("userID", u.UserID),
				logger.Int("versions", numVersions),
			)
		}
	}

	log.Info(ctx, "seed complete",
		logger.Int("users", stats.UsersCreated),
		logger.Int("versions", stats.VersionsCreated),
	)
	return nil
}
