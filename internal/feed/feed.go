// Package feed contains the pure visibility and feed-composition logic.
// It has no dependencies on storage, transport, or caching: callers pass
// snapshots of content and the viewer's friend graph in, and get a filtered,
// chronologically ordered feed out. Every function here is a total, pure
// function of its inputs.
package feed

import (
	"sort"
	"time"
)

// Visibility controls who can see a content item.
type Visibility string

const (
	// VisibilityPublic items are visible to any authenticated viewer.
	VisibilityPublic Visibility = "public"
	// VisibilityFriends items are visible to the owner and the owner's friends.
	VisibilityFriends Visibility = "friends"
	// VisibilityPrivate items are visible to the owner only. No exceptions,
	// including admins.
	VisibilityPrivate Visibility = "private"
)

// Known reports whether v is one of the recognized visibility levels.
func (v Visibility) Known() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// Kind discriminates the two content sources that make up a feed.
type Kind string

const (
	KindPost  Kind = "post"
	KindMedia Kind = "media"
)

// DefaultVisibility returns the visibility applied to items of the given kind
// that carry no (or an unrecognized) visibility value. Posts default to public
// and media entries to friends; the asymmetry is inherited product behavior,
// not an accident of this package.
func DefaultVisibility(kind Kind) Visibility {
	if kind == KindPost {
		return VisibilityPublic
	}
	return VisibilityFriends
}

// Normalize maps an unrecognized or empty visibility to the kind default.
func (v Visibility) Normalize(kind Kind) Visibility {
	if v.Known() {
		return v
	}
	return DefaultVisibility(kind)
}

// IDSet is a set of user IDs, used for friend-set membership checks.
type IDSet map[uint]struct{}

// NewIDSet builds an IDSet from the given IDs.
func NewIDSet(ids ...uint) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s IDSet) Add(id uint) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Contains(id uint) bool {
	_, ok := s[id]
	return ok
}

// Item is the minimal view of a post or media entry the feed logic needs.
// Domain models implement it; tests use lightweight fakes.
type Item interface {
	ContentID() uint
	ContentOwner() uint
	ContentVisibility() Visibility
	ContentCreatedAt() time.Time
	ContentKind() Kind
}

// IsVisible decides whether a single item may be shown to the viewer.
//
// The owner always sees their own items, including private ones. Private
// items are never shown to anyone else; admin status grants mutation rights
// elsewhere in the system but never read access to private content. Friends
// items require the owner to be in viewerFriends. Unrecognized visibility
// values are normalized to the kind default before evaluation, so this is a
// total function: it never panics and never errors.
func IsVisible(item Item, viewerID uint, viewerFriends IDSet) bool {
	if item == nil {
		return false
	}
	owner := item.ContentOwner()
	if owner == viewerID {
		return true
	}
	switch item.ContentVisibility().Normalize(item.ContentKind()) {
	case VisibilityPrivate:
		return false
	case VisibilityPublic:
		return true
	default: // friends
		return viewerFriends.Contains(owner)
	}
}

// Entry is one element of a composed feed: the surviving item tagged with its
// kind so the rendering layer can pick a presentation template.
type Entry struct {
	Kind Kind `json:"kind"`
	Item Item `json:"item"`
}

// Composition is the result of merging the two content sources for a viewer.
type Composition struct {
	// Entries is the visible content, newest first. Ties on creation time
	// keep their original relative order (posts before media, then input
	// order within each source).
	Entries []Entry
	// Skipped counts malformed items (missing owner or creation time) that
	// were excluded rather than failing the whole composition. Surfaced for
	// diagnostics only.
	Skipped int
}

// Compose filters posts and media through IsVisible with the same viewer
// context, tags survivors with their kind, and merges them into one list
// sorted descending by creation time. The computation is eager, stateless
// and idempotent: identical inputs always produce identical output, so a
// superseded run can simply be discarded in favor of the latest one.
func Compose(posts, media []Item, viewerID uint, viewerFriends IDSet) Composition {
	out := Composition{
		Entries: make([]Entry, 0, len(posts)+len(media)),
	}
	appendVisible := func(items []Item, kind Kind) {
		for _, it := range items {
			if it == nil || it.ContentOwner() == 0 || it.ContentCreatedAt().IsZero() {
				out.Skipped++
				continue
			}
			if IsVisible(it, viewerID, viewerFriends) {
				out.Entries = append(out.Entries, Entry{Kind: kind, Item: it})
			}
		}
	}
	appendVisible(posts, KindPost)
	appendVisible(media, KindMedia)

	sort.SliceStable(out.Entries, func(i, j int) bool {
		return out.Entries[i].Item.ContentCreatedAt().After(out.Entries[j].Item.ContentCreatedAt())
	})
	return out
}
