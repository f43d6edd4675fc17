package service

import (
	"context"

	"harmonic/internal/feed"
	"harmonic/internal/models"
	"harmonic/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifRepo  repository.NotificationRepository
}

// NewFriendService returns a new FriendService. notifRepo may be nil; then
// no notifications are persisted.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, notifRepo repository.NotificationRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
	}
}

// SendFriendRequest sends a friend request to the target user.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewValidationError("You are already friends")
		case models.FriendshipStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewValidationError("Friend request already sent")
			}
			return nil, models.NewValidationError("You already have a pending friend request from this user")
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	s.notify(ctx, &models.Notification{
		UserID:  targetUserID,
		ActorID: userID,
		Kind:    models.NotificationFriendRequest,
	})

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// GetPendingRequests returns pending friend requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns pending friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// AcceptFriendRequest accepts a pending friend request addressed to the user.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID {
		return nil, models.NewUnauthorizedError("You can only accept friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewValidationError("Friend request is not pending")
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipStatusAccepted); err != nil {
		return nil, err
	}

	s.notify(ctx, &models.Notification{
		UserID:  friendship.RequesterID,
		ActorID: userID,
		Kind:    models.NotificationFriendAccept,
	})

	return s.friendRepo.GetByID(ctx, requestID)
}

// RejectFriendRequest rejects or cancels a pending friend request. The
// addressee rejects, the requester cancels; either way the row is removed.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID && friendship.RequesterID != userID {
		return nil, models.NewUnauthorizedError("You can only reject or cancel your own pending requests")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewValidationError("Friend request is not pending")
	}

	if err := s.friendRepo.Delete(ctx, requestID); err != nil {
		return nil, err
	}

	return friendship, nil
}

// GetFriends returns the list of friends for the user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetFriendshipStatus resolves the relationship between the viewer and the
// target user. The returned request ID is nonzero only for pending requests,
// so the UI can accept or cancel directly.
func (s *FriendService) GetFriendshipStatus(ctx context.Context, viewerID, targetUserID uint) (feed.Status, uint, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return feed.StatusNone, 0, err
	}
	if viewerID == targetUserID {
		return feed.StatusNone, 0, models.NewValidationError("Cannot resolve friendship status with yourself")
	}

	profile, requestIDs, err := s.loadProfile(ctx, viewerID)
	if err != nil {
		return feed.StatusNone, 0, err
	}

	status := feed.ResolveStatus(profile, targetUserID)
	var requestID uint
	if status == feed.StatusSent || status == feed.StatusReceived {
		requestID = requestIDs[targetUserID]
	}
	return status, requestID, nil
}

// loadProfile snapshots the viewer's social graph for status resolution and
// returns a counterpart-to-request-ID index alongside it.
func (s *FriendService) loadProfile(ctx context.Context, viewerID uint) (*feed.Profile, map[uint]uint, error) {
	if viewerID == 0 {
		return nil, nil, nil
	}

	friendIDs, err := s.friendRepo.GetFriendIDs(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	received, err := s.friendRepo.GetPendingRequests(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	sent, err := s.friendRepo.GetSentRequests(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}

	profile := &feed.Profile{
		UserID:    viewerID,
		FriendIDs: feed.NewIDSet(friendIDs...),
	}
	requestIDs := make(map[uint]uint, len(received)+len(sent))
	for _, f := range received {
		profile.Requests = append(profile.Requests, feed.Request{
			CounterpartID: f.RequesterID,
			Direction:     feed.DirectionReceived,
		})
		requestIDs[f.RequesterID] = f.ID
	}
	for _, f := range sent {
		profile.Requests = append(profile.Requests, feed.Request{
			CounterpartID: f.AddresseeID,
			Direction:     feed.DirectionSent,
		})
		if _, ok := requestIDs[f.AddresseeID]; !ok {
			requestIDs[f.AddresseeID] = f.ID
		}
	}
	return profile, requestIDs, nil
}

// RemoveFriend removes the accepted friendship between two users.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return nil, models.NewNotFoundError("Friendship", 0)
	}

	if err := s.friendRepo.RemoveFriendship(ctx, userID, targetUserID); err != nil {
		return nil, err
	}
	return friendship, nil
}

// notify persists a notification, ignoring failures. A lost notification is
// not worth failing the originating action.
func (s *FriendService) notify(ctx context.Context, n *models.Notification) {
	if s.notifRepo == nil {
		return
	}
	_ = s.notifRepo.Create(ctx, n)
}
