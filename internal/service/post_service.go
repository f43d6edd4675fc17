package service

import (
	"context"
	"strings"

	"harmonic/internal/feed"
	"harmonic/internal/models"
	"harmonic/internal/repository"
	"harmonic/internal/validation"
)

type PostService struct {
	postRepo   repository.PostRepository
	notifRepo  repository.NotificationRepository
	visibility *visibilityChecker
	isAdmin    func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID     uint
	Content    string
	Category   string
	Visibility feed.Visibility
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Content    string
	Category   string
	Visibility feed.Visibility
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	friendRepo repository.FriendRepository,
	notifRepo repository.NotificationRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		notifRepo:  notifRepo,
		visibility: &visibilityChecker{friendRepo: friendRepo},
		isAdmin:    isAdmin,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category := in.Category
	if category == "" {
		category = models.PostCategoryThought
	}
	if !models.ValidPostCategory(category) {
		return nil, models.NewValidationError("Invalid post category")
	}

	post := &models.Post{
		UserID:     in.UserID,
		Content:    in.Content,
		Category:   category,
		Visibility: in.Visibility.Normalize(feed.KindPost),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns the post if the viewer may see it. Invisible posts are
// reported as not found so the response does not confirm their existence.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	visible, err := s.visibility.canView(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// GetUserPosts returns the target user's posts that the viewer may see.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
	if err != nil {
		return nil, err
	}
	return s.filterVisible(ctx, posts, viewerID)
}

// ListPosts returns the newest posts visible to the viewer.
func (s *PostService) ListPosts(ctx context.Context, limit int, viewerID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.ListRecent(ctx, limit, viewerID)
	if err != nil {
		return nil, err
	}
	return s.filterVisible(ctx, posts, viewerID)
}

// SearchPosts finds posts by content, filtered to what the viewer may see.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	posts, err := s.postRepo.Search(ctx, query, limit, offset, viewerID)
	if err != nil {
		return nil, err
	}
	return s.filterVisible(ctx, posts, viewerID)
}

// filterVisible drops posts the viewer may not see. The friend set is loaded
// once and reused across the batch.
func (s *PostService) filterVisible(ctx context.Context, posts []*models.Post, viewerID uint) ([]*models.Post, error) {
	friends, err := s.visibility.friendSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if feed.IsVisible(p, viewerID, friends) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		if err := s.requireAdmin(ctx, in.UserID, "You can only update your own posts"); err != nil {
			return nil, err
		}
	}

	if in.Content != "" {
		if err := validation.ValidatePostContent(in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Content = in.Content
	}
	if in.Category != "" {
		if !models.ValidPostCategory(in.Category) {
			return nil, models.NewValidationError("Invalid post category")
		}
		post.Category = in.Category
	}
	if in.Visibility != "" {
		// Visibility is owner-only even for admins; a moderator edit must
		// not widen the audience of somebody else's post.
		if post.UserID != in.UserID {
			return nil, models.NewUnauthorizedError("Only the owner can change visibility")
		}
		if !in.Visibility.Known() {
			return nil, models.NewValidationError("Invalid visibility")
		}
		post.Visibility = in.Visibility
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if err := s.requireAdmin(ctx, in.UserID, "You can only delete your own posts"); err != nil {
			return err
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleVote flips the user's vote on a post. Voting on an invisible post is
// rejected the same way reading it is.
func (s *PostService) ToggleVote(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	voted, err := s.postRepo.IsVoted(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if voted {
		if err := s.postRepo.Unvote(ctx, userID, postID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.Vote(ctx, userID, postID); err != nil {
			return nil, err
		}
		if post.UserID != userID && s.notifRepo != nil {
			pid := postID
			_ = s.notifRepo.Create(ctx, &models.Notification{
				UserID:  post.UserID,
				ActorID: userID,
				Kind:    models.NotificationVote,
				PostID:  &pid,
			})
		}
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

// requireAdmin returns an authorization error unless userID is an admin.
func (s *PostService) requireAdmin(ctx context.Context, userID uint, denial string) error {
	if s.isAdmin == nil {
		return models.NewUnauthorizedError(denial)
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError(denial)
	}
	return nil
}
