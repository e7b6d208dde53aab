// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "memberships: "+err.Error())
	}
	if err := ensureDiscussions(ctx, db); err != nil {
		problems = append(problems, "discussions: "+err.Error())
	}
	if err := ensureComments(ctx, db); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}
	if err := ensureReadMarkers(ctx, db); err != nil {
		problems = append(problems, "read_markers: "+err.Error())
	}
	if err := ensureActions(ctx, db); err != nil {
		problems = append(problems, "actions: "+err.Error())
	}
	if err := ensureSchedulerLeases(ctx, db); err != nil {
		problems = append(problems, "scheduler_leases: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(p *bool) bool { return p != nil && *p }

// Mongo/DocDB returns IndexOptionsConflict when an index with the same
// keys already exists under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing := map[string]existingIndex{} // key signature -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
	}

	var errs []string
	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if boolOf(ex.Unique) == boolOf(desiredUnique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			// Options mismatch (e.g. upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Info("reusing existing index (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig))
				continue
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", boolOf(desiredUnique)),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email must be unique across all users.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Verification-token lookup during email confirmation.
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_users_token"),
		},
		// Name prefix search + stable sort.
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_nameci__id"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("groups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// No duplicate group names (case/diacritics-folded via name_ci).
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_groups_nameci"),
		},
		// Directory listing: most recently active first.
		{
			Keys:    bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_updated__id"),
		},
	})
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("memberships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one membership per (user, group); tier is scalar and
		// the doc is updated to change it.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_mem_user_group"),
		},
		// List group members (+tier segmentation, stable tiebreak).
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "tier", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_mem_group_tier_user"),
		},
		// Digest candidate scan: tier + muted prefix covers the $match.
		{
			Keys:    bson.D{{Key: "tier", Value: 1}, {Key: "muted", Value: 1}},
			Options: options.Index().SetName("idx_mem_tier_muted"),
		},
	})
}

func ensureDiscussions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("discussions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Group feed: latest activity first, stable tiebreak.
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_disc_group_updated__id"),
		},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("comments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Thread view: oldest first.
		{
			Keys:    bson.D{{Key: "discussion_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_comments_disc_created"),
		},
	})
}

func ensureReadMarkers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("read_markers")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One marker per (user, discussion); MarkRead upserts against this.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "discussion_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_rm_user_disc"),
		},
	})
}

func ensureActions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("actions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Calendar window queries per group.
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("idx_actions_group_start"),
		},
		// Upcoming feed across groups.
		{
			Keys:    bson.D{{Key: "stop", Value: 1}},
			Options: options.Index().SetName("idx_actions_stop"),
		},
	})
}

func ensureSchedulerLeases(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("scheduler_leases")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Sweep scans by expiry.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_leases_expires"),
		},
	})
}
