package enums

// GroupState is the computed lifecycle state of a buying group. Only
// finalization is persisted; expiry is derived from the deadline on read, so
// a group whose deadline passed without being touched still reads as expired.
type GroupState string

const (
	GroupStateOpen      GroupState = "open"
	GroupStateFinalized GroupState = "finalized"
	GroupStateExpired   GroupState = "expired"
)

// String implements fmt.Stringer.
func (g GroupState) String() string {
	return string(g)
}
