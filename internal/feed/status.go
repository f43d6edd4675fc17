package feed

// Status is the relationship between a viewer and another user, used by the
// UI to render friend-action buttons.
type Status string

const (
	StatusNone     Status = "none"
	StatusFriends  Status = "friends"
	StatusSent     Status = "sent"
	StatusReceived Status = "received"
)

// Direction tags a pending friend request relative to the profile owner.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Request is one pending friend-request entry on a profile.
type Request struct {
	CounterpartID uint
	Direction     Direction
}

// Profile is the snapshot of a user's social graph needed to resolve
// relationship status: the accepted friend set plus pending requests in
// both directions.
type Profile struct {
	UserID    uint
	FriendIDs IDSet
	Requests  []Request
}

// ResolveStatus computes the relationship between the profile owner (the
// viewer) and targetID. A nil profile resolves to StatusNone (guest).
//
// An accepted friendship takes precedence over any stale pending-request
// entry that a partial write may have left behind, and a received request
// wins over a sent one when both exist.
func ResolveStatus(viewer *Profile, targetID uint) Status {
	if viewer == nil {
		return StatusNone
	}
	if viewer.FriendIDs.Contains(targetID) {
		return StatusFriends
	}
	var sent bool
	for _, r := range viewer.Requests {
		if r.CounterpartID != targetID {
			continue
		}
		if r.Direction == DirectionReceived {
			return StatusReceived
		}
		if r.Direction == DirectionSent {
			sent = true
		}
	}
	if sent {
		return StatusSent
	}
	return StatusNone
}
