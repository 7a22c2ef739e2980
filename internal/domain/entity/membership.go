package entity

// MembershipKind selects one of the per-user recipe sets.
type MembershipKind string

const (
	MembershipFavorite MembershipKind = "favorite"
	MembershipCart     MembershipKind = "cart"
)
