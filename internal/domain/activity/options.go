package activity

// ListOptions provides filtering options for listing persisted activity.
type ListOptions struct {
	UnreadOnly bool
	Type       *Type
	Limit      int
	Offset     int
}
