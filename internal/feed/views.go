package feed

import (
	"strconv"

	"github.com/rpggio/painel/internal/domain/activity"
)

// Tab selects which activities the feed view shows.
type Tab string

const (
	TabAll    Tab = "all"
	TabUnread Tab = "unread"
)

// ParseTab maps a query value to a Tab, defaulting to TabAll.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case "", TabAll:
		return TabAll, true
	case TabUnread:
		return TabUnread, true
	}
	return TabAll, false
}

// DefaultPreview is the number of entries shown in the bell dropdown.
const DefaultPreview = 5

// FeedView is the activity feed as rendered for one tab.
type FeedView struct {
	Tab         Tab                 `json:"tab"`
	Items       []activity.Activity `json:"items"`
	Total       int                 `json:"total"`
	UnreadCount int                 `json:"unreadCount"`
}

// NewFeedView filters the snapshot for the given tab.
func NewFeedView(s Snapshot, tab Tab) FeedView {
	items := s.Activities
	if tab == TabUnread {
		items = make([]activity.Activity, 0, s.UnreadCount)
		for _, a := range s.Activities {
			if !a.Read {
				items = append(items, a)
			}
		}
	}
	if items == nil {
		items = []activity.Activity{}
	}
	return FeedView{
		Tab:         tab,
		Items:       items,
		Total:       len(s.Activities),
		UnreadCount: s.UnreadCount,
	}
}

// BellView is the notification bell: a badge and a short preview.
type BellView struct {
	Badge      int                 `json:"badge"`
	BadgeLabel string              `json:"badgeLabel"`
	Preview    []activity.Activity `json:"preview"`
	HasMore    bool                `json:"hasMore"`
}

// NewBellView shows the unread count and the first n entries of the full list.
func NewBellView(s Snapshot, n int) BellView {
	if n <= 0 {
		n = DefaultPreview
	}
	preview := s.Activities
	if len(preview) > n {
		preview = preview[:n]
	}
	if preview == nil {
		preview = []activity.Activity{}
	}
	return BellView{
		Badge:      s.UnreadCount,
		BadgeLabel: badgeLabel(s.UnreadCount),
		Preview:    preview,
		HasMore:    len(s.Activities) > n,
	}
}

func badgeLabel(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 9:
		return "9+"
	default:
		return strconv.Itoa(n)
	}
}
