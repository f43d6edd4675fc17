// Package service implements the business logic layer of the application.
package service

import (
	"context"

	"harmonic/internal/feed"
	"harmonic/internal/repository"
)

// visibilityChecker answers "can this viewer see this item" by combining the
// pure visibility rules with the viewer's friend set.
type visibilityChecker struct {
	friendRepo repository.FriendRepository
}

func (v *visibilityChecker) canView(ctx context.Context, viewerID uint, item feed.Item) (bool, error) {
	if item == nil {
		return false, nil
	}

	// Owner and public shortcuts need no friend lookup.
	if item.ContentOwner() == viewerID {
		return true, nil
	}
	switch item.ContentVisibility().Normalize(item.ContentKind()) {
	case feed.VisibilityPublic:
		return true, nil
	case feed.VisibilityPrivate:
		return false, nil
	}

	if viewerID == 0 {
		return false, nil
	}
	friends, err := v.friendSet(ctx, viewerID)
	if err != nil {
		return false, err
	}
	return feed.IsVisible(item, viewerID, friends), nil
}

// friendSet loads the viewer's accepted friend IDs as a set. Guests get an
// empty set without touching the repository.
func (v *visibilityChecker) friendSet(ctx context.Context, viewerID uint) (feed.IDSet, error) {
	if viewerID == 0 {
		return nil, nil
	}
	ids, err := v.friendRepo.GetFriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return feed.NewIDSet(ids...), nil
}
