package feed

import (
	"reflect"
	"testing"
	"time"
)

type fakeItem struct {
	id         uint
	owner      uint
	visibility Visibility
	createdAt  time.Time
	kind       Kind
}

func (f fakeItem) ContentID() uint               { return f.id }
func (f fakeItem) ContentOwner() uint            { return f.owner }
func (f fakeItem) ContentVisibility() Visibility { return f.visibility }
func (f fakeItem) ContentCreatedAt() time.Time   { return f.createdAt }
func (f fakeItem) ContentKind() Kind             { return f.kind }

func at(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func post(id, owner uint, vis Visibility, sec int64) fakeItem {
	return fakeItem{id: id, owner: owner, visibility: vis, createdAt: at(sec), kind: KindPost}
}

func media(id, owner uint, vis Visibility, sec int64) fakeItem {
	return fakeItem{id: id, owner: owner, visibility: vis, createdAt: at(sec), kind: KindMedia}
}

func TestIsVisibleOwnerAlwaysSeesOwnContent(t *testing.T) {
	for _, vis := range []Visibility{VisibilityPublic, VisibilityFriends, VisibilityPrivate, "garbage", ""} {
		item := post(1, 7, vis, 100)
		if !IsVisible(item, 7, nil) {
			t.Errorf("owner should see own item with visibility %q", vis)
		}
	}
}

func TestIsVisiblePrivateHasNoExceptions(t *testing.T) {
	item := post(1, 7, VisibilityPrivate, 100)

	// Not even a viewer who is a friend of the owner, and not even an admin:
	// admin checks happen in the mutation path, never here.
	if IsVisible(item, 8, NewIDSet(7)) {
		t.Error("private item visible to a friend of the owner")
	}
	if IsVisible(item, 1, NewIDSet(7)) {
		t.Error("private item visible to a non-owner")
	}
}

func TestIsVisiblePublic(t *testing.T) {
	item := post(1, 7, VisibilityPublic, 100)
	if !IsVisible(item, 42, nil) {
		t.Error("public item should be visible to any viewer")
	}
}

func TestIsVisibleFriendsMatchesFriendSet(t *testing.T) {
	item := media(1, 7, VisibilityFriends, 100)

	if !IsVisible(item, 8, NewIDSet(3, 7, 12)) {
		t.Error("friends item should be visible when owner is in the viewer's friend set")
	}
	if IsVisible(item, 8, NewIDSet(3, 12)) {
		t.Error("friends item should not be visible when owner is absent from the friend set")
	}
	if IsVisible(item, 8, nil) {
		t.Error("friends item should not be visible to a viewer with no friends")
	}
}

func TestIsVisibleNormalizesUnknownVisibility(t *testing.T) {
	// Unknown visibility on a post falls back to public.
	if !IsVisible(post(1, 7, "banana", 100), 42, nil) {
		t.Error("unknown visibility on a post should default to public")
	}
	// Unknown visibility on a media entry falls back to friends.
	if IsVisible(media(1, 7, "", 100), 42, nil) {
		t.Error("missing visibility on a media entry should default to friends")
	}
	if !IsVisible(media(1, 7, "", 100), 42, NewIDSet(7)) {
		t.Error("missing visibility on a media entry should be friend-visible")
	}
}

func TestIsVisibleNilItem(t *testing.T) {
	if IsVisible(nil, 1, nil) {
		t.Error("nil item must not be visible")
	}
}

func TestComposeScenario(t *testing.T) {
	// Viewer V=1 with friends = {F1=2}. F2=3 is not a friend.
	posts := []Item{
		post(10, 2, VisibilityFriends, 10),
		post(11, 3, VisibilityFriends, 20), // excluded: F2 not a friend
		post(12, 3, VisibilityPublic, 5),
	}
	got := Compose(posts, nil, 1, NewIDSet(2))

	if got.Skipped != 0 {
		t.Fatalf("skipped = %d, want 0", got.Skipped)
	}
	ids := entryIDs(got.Entries)
	want := []uint{10, 12}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("composed feed = %v, want %v", ids, want)
	}
}

func TestComposeMergesAndSortsDescending(t *testing.T) {
	posts := []Item{
		post(1, 1, VisibilityPublic, 30),
		post(2, 1, VisibilityPublic, 10),
	}
	mediaItems := []Item{
		media(3, 1, VisibilityPrivate, 20), // owner sees own private item
		media(4, 1, VisibilityFriends, 40),
	}

	got := Compose(posts, mediaItems, 1, nil)
	ids := entryIDs(got.Entries)
	want := []uint{4, 1, 3, 2}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("composed feed = %v, want %v", ids, want)
	}

	for i := 1; i < len(got.Entries); i++ {
		prev := got.Entries[i-1].Item.ContentCreatedAt()
		cur := got.Entries[i].Item.ContentCreatedAt()
		if prev.Before(cur) {
			t.Fatalf("feed not sorted: entry %d (%v) before entry %d (%v)", i-1, prev, i, cur)
		}
	}
}

func TestComposeStableOnEqualTimestamps(t *testing.T) {
	posts := []Item{
		post(1, 1, VisibilityPublic, 50),
		post(2, 1, VisibilityPublic, 50),
	}
	mediaItems := []Item{
		media(3, 1, VisibilityPublic, 50),
	}

	got := Compose(posts, mediaItems, 1, nil)
	// Equal timestamps keep input order: posts first, then media.
	want := []uint{1, 2, 3}
	if ids := entryIDs(got.Entries); !reflect.DeepEqual(ids, want) {
		t.Fatalf("tie-break order = %v, want %v", ids, want)
	}
}

func TestComposeExcludesExactlyTheInvisible(t *testing.T) {
	viewer := uint(1)
	friends := NewIDSet(2)
	posts := []Item{
		post(1, 1, VisibilityPrivate, 1),
		post(2, 2, VisibilityPrivate, 2),
		post(3, 2, VisibilityFriends, 3),
		post(4, 3, VisibilityFriends, 4),
		post(5, 3, VisibilityPublic, 5),
	}
	mediaItems := []Item{
		media(6, 2, VisibilityFriends, 6),
		media(7, 3, "", 7), // defaults to friends; owner 3 is not a friend
	}

	got := Compose(posts, mediaItems, viewer, friends)

	visible := make(map[uint]bool)
	for _, e := range got.Entries {
		visible[e.Item.ContentID()] = true
	}
	for _, it := range append(append([]Item{}, posts...), mediaItems...) {
		want := IsVisible(it, viewer, friends)
		if visible[it.ContentID()] != want {
			t.Errorf("item %d: in feed = %v, isVisible = %v", it.ContentID(), visible[it.ContentID()], want)
		}
	}
}

func TestComposeSkipsMalformedItems(t *testing.T) {
	posts := []Item{
		post(1, 0, VisibilityPublic, 10),            // missing owner
		fakeItem{id: 2, owner: 3, kind: KindPost, visibility: VisibilityPublic}, // zero createdAt
		post(3, 3, VisibilityPublic, 10),
		nil,
	}
	got := Compose(posts, nil, 1, nil)

	if got.Skipped != 3 {
		t.Fatalf("skipped = %d, want 3", got.Skipped)
	}
	if ids := entryIDs(got.Entries); !reflect.DeepEqual(ids, []uint{3}) {
		t.Fatalf("entries = %v, want [3]", ids)
	}
}

func TestComposeEmptyInputs(t *testing.T) {
	got := Compose(nil, nil, 1, nil)
	if len(got.Entries) != 0 || got.Skipped != 0 {
		t.Fatalf("empty inputs should yield an empty composition, got %+v", got)
	}
}

func TestComposeIdempotent(t *testing.T) {
	posts := []Item{
		post(1, 2, VisibilityPublic, 10),
		post(2, 2, VisibilityFriends, 20),
	}
	mediaItems := []Item{
		media(3, 1, VisibilityPrivate, 15),
	}
	friends := NewIDSet(2)

	first := Compose(posts, mediaItems, 1, friends)
	second := Compose(posts, mediaItems, 1, friends)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical compositions")
	}
}

func entryIDs(entries []Entry) []uint {
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Item.ContentID())
	}
	return ids
}
