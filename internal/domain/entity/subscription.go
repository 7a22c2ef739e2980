package entity

// Subscription is a directed follow edge. subscriber != author is enforced
// at creation and by a CHECK constraint in the store.
type Subscription struct {
	SubscriberID string
	AuthorID     string
}
