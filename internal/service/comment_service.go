package service

import (
	"context"

	"harmonic/internal/models"
	"harmonic/internal/repository"
	"harmonic/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifRepo   repository.NotificationRepository
	visibility  *visibilityChecker
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	friendRepo repository.FriendRepository,
	notifRepo repository.NotificationRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifRepo:   notifRepo,
		visibility:  &visibilityChecker{friendRepo: friendRepo},
		isAdmin:     isAdmin,
	}
}

// CreateComment adds a comment to a post the user can see.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.visiblePost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.UserID != userID && s.notifRepo != nil {
		pid := postID
		_ = s.notifRepo.Create(ctx, &models.Notification{
			UserID:  post.UserID,
			ActorID: userID,
			Kind:    models.NotificationComment,
			PostID:  &pid,
		})
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// GetComments lists a post's comments, oldest first. The post must be visible
// to the viewer.
func (s *CommentService) GetComments(ctx context.Context, postID uint, limit, offset int, viewerID uint) ([]models.Comment, error) {
	if _, err := s.visiblePost(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByPostID(ctx, postID, limit, offset)
}

// UpdateComment edits a comment. Only the author may edit; admins delete but
// never rewrite other people's words.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. The author, the post's owner, and admins
// may delete.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID, userID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			if s.isAdmin == nil {
				return models.NewUnauthorizedError("You can only delete your own comments")
			}
			admin, err := s.isAdmin(ctx, userID)
			if err != nil {
				return err
			}
			if !admin {
				return models.NewUnauthorizedError("You can only delete your own comments")
			}
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// visiblePost loads a post and hides it behind NOT_FOUND when the viewer may
// not see it.
func (s *CommentService) visiblePost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
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
