// internal/domain/models/tier.go
package models

// Tier is the ordered membership level for a (user, group) pair.
//
// The values form a monotonically ordered score, not a bitmask. Eligibility
// for group content and for digest notifications requires a tier strictly
// above the applicant boundary, i.e. Tier >= TierMember.
type Tier int

const (
	TierNone      Tier = 0
	TierApplicant Tier = 10
	TierMember    Tier = 20
	TierAdmin     Tier = 30
)

// EligibleForContent reports whether the tier grants access to group
// content (discussions, comments, calendar actions) and makes the
// membership a digest candidate. Applicants are not eligible.
func (t Tier) EligibleForContent() bool {
	return t >= TierMember
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierNone, TierApplicant, TierMember, TierAdmin:
		return true
	}
	return false
}

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierApplicant:
		return "applicant"
	case TierMember:
		return "member"
	case TierAdmin:
		return "admin"
	}
	return "unknown"
}
