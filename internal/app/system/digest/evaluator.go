// internal/app/system/digest/evaluator.go
package digest

import (
	"sort"

	membershipstore "github.com/agorahub/agorahub/internal/app/store/memberships"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unread returns how many comments of d the given read count has not seen.
// Never negative: a marker ahead of the counter (stale data) reads as
// fully caught up.
func Unread(d models.Discussion, readCount int64) int64 {
	if n := d.TotalComments - readCount; n > 0 {
		return n
	}
	return 0
}

// Evaluate computes the digest for one membership. Pure and deterministic:
// no I/O, no clock, total over well-formed inputs.
//
// A discussion contributes an entry iff it has unread comments AND was
// updated after the membership's last notification. A nil watermark means
// "never notified", so everything unread contributes. Entries are ordered
// most recently updated first; ties break on ID so the order is stable.
//
// Read markers for discussions not present in discussions are never
// consulted; stale markers for deleted discussions are harmless.
func Evaluate(c membershipstore.DigestCandidate, discussions []models.Discussion, readCounts map[primitive.ObjectID]int64) Digest {
	d := Digest{
		UserID:    c.UserID,
		UserName:  c.UserName,
		UserEmail: c.UserEmail,
		GroupID:   c.GroupID,
	}

	for _, disc := range discussions {
		unread := Unread(disc, readCounts[disc.ID])
		if unread == 0 {
			continue
		}
		if c.LastNotifiedAt != nil && !disc.UpdatedAt.After(*c.LastNotifiedAt) {
			continue
		}
		d.Entries = append(d.Entries, Entry{Discussion: disc, Unread: unread})
		d.TotalUnread += unread
	}

	sort.SliceStable(d.Entries, func(i, j int) bool {
		ti, tj := d.Entries[i].Discussion.UpdatedAt, d.Entries[j].Discussion.UpdatedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return d.Entries[i].Discussion.ID.Hex() < d.Entries[j].Discussion.ID.Hex()
	})

	return d
}
