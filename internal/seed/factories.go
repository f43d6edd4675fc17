// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"harmonic/internal/feed"
	"harmonic/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune how the factory and seeder generate data.
type SeedOptions struct {
	// DryRun builds entities without writing them, assigning synthetic IDs.
	DryRun bool
	// SkipBcrypt stores plaintext passwords. Much faster for big seeds;
	// the resulting users cannot log in.
	SkipBcrypt bool
	// MaxDays bounds how far back generated created_at timestamps spread.
	MaxDays int
	// BatchSize controls batched inserts. Zero means one row per insert.
	BatchSize int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// spreadCreatedAt returns a timestamp within the last MaxDays days.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// pickVisibility weights generated content toward public so seeded feeds
// have something to show anonymous viewers.
func (f *Factory) pickVisibility() feed.Visibility {
	switch n := f.rng.Intn(100); {
	case n < 65:
		return feed.VisibilityPublic
	case n < 95:
		return feed.VisibilityFriends
	default:
		return feed.VisibilityPrivate
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		Avatar:      avatarEmojis[f.rng.Intn(len(avatarEmojis))],
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post struct of the given category but does not
// persist it. Useful for batching.
func (f *Factory) BuildPost(user *models.User, category string, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:     user.ID,
		Category:   category,
		Visibility: f.pickVisibility(),
		CreatedAt:  f.spreadCreatedAt(),
	}

	switch category {
	case models.PostCategoryReview:
		title := mediaTitles[mediaTypePool[f.rng.Intn(len(mediaTypePool))]]
		post.Content = fmt.Sprintf("Finished %q last night. %s", title[f.rng.Intn(len(title))], gofakeit.Paragraph(1, 2, 6, " "))
	case models.PostCategoryStory:
		post.Content = gofakeit.Paragraph(2, 4, 8, "\n\n")
	default:
		post.Content = gofakeit.Sentence(f.rng.Intn(16) + 4)
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample `models.Post` for the given user.
func (f *Factory) CreatePost(user *models.User, category string, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, category, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: category=%s user=%d", post.Category, post.UserID)
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	batch := f.opts.BatchSize
	if batch <= 0 {
		return f.db.Create(&posts).Error
	}
	return f.db.CreateInBatches(&posts, batch).Error
}

// BuildMediaItem constructs a media entry of the given type but does not
// persist it. Type-specific creator fields are populated to match.
func (f *Factory) BuildMediaItem(user *models.User, mediaType string, overrides ...func(*models.MediaItem)) *models.MediaItem {
	titles := mediaTitles[mediaType]
	if len(titles) == 0 {
		titles = mediaTitles[models.MediaTypeBook]
	}

	item := &models.MediaItem{
		UserID:     user.ID,
		Title:      titles[f.rng.Intn(len(titles))],
		Type:       mediaType,
		Status:     f.pickMediaStatus(),
		Visibility: f.pickVisibility(),
		CreatedAt:  f.spreadCreatedAt(),
	}
	item.LoggedDate = item.CreatedAt.Format("2006-01-02")

	// Rating only makes sense once there is something to rate.
	if item.Status == models.MediaStatusCompleted || item.Status == models.MediaStatusDropped {
		item.Rating = f.rng.Intn(6) + 5 // 5-10; seeded users are generous
		item.Review = gofakeit.Paragraph(1, 2, 8, " ")
	}

	switch mediaType {
	case models.MediaTypeBook:
		item.Author = gofakeit.Name()
	case models.MediaTypeMovie:
		item.Director = gofakeit.Name()
	case models.MediaTypeGame:
		item.Platform = gamePlatforms[f.rng.Intn(len(gamePlatforms))]
	case models.MediaTypeSeries:
		item.SeasonCount = fmt.Sprintf("%d", f.rng.Intn(5)+1)
	case models.MediaTypeAnime:
		item.Studio = gofakeit.Company()
	case models.MediaTypeMusic:
		item.Artist = gofakeit.Name()
	}

	if f.rng.Intn(100) < 40 {
		item.Tags = []string{gofakeit.HackerAdjective(), gofakeit.HackerNoun()}
	}

	for _, override := range overrides {
		override(item)
	}
	return item
}

func (f *Factory) pickMediaStatus() string {
	switch n := f.rng.Intn(100); {
	case n < 55:
		return models.MediaStatusCompleted
	case n < 75:
		return models.MediaStatusInProgress
	case n < 90:
		return models.MediaStatusPlanned
	default:
		return models.MediaStatusDropped
	}
}

// CreateMediaItem constructs and persists a sample `models.MediaItem`.
func (f *Factory) CreateMediaItem(user *models.User, mediaType string, overrides ...func(*models.MediaItem)) (*models.MediaItem, error) {
	item := f.BuildMediaItem(user, mediaType, overrides...)

	if f.opts.DryRun {
		f.nextID++
		item.ID = f.nextID
		log.Printf("[dry-run] CreateMediaItem: type=%s user=%d title=%q", item.Type, item.UserID, item.Title)
		return item, nil
	}

	if err := f.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateVote persists a vote from `user` on `post`.
func (f *Factory) CreateVote(user *models.User, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	vote := &models.Vote{
		UserID: user.ID,
		PostID: post.ID,
	}
	return f.db.Create(vote).Error
}

// CreateFriendship persists a friendship relationship between two users.
func (f *Factory) CreateFriendship(requester, addressee *models.User, status models.FriendshipStatus) error {
	if f.opts.DryRun {
		return nil
	}
	friendship := &models.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      status,
	}
	return f.db.Create(friendship).Error
}

// CreateNotification persists a notification for `user` caused by `actor`.
func (f *Factory) CreateNotification(user, actor *models.User, kind string, postID *uint) error {
	if f.opts.DryRun {
		return nil
	}
	n := &models.Notification{
		UserID:  user.ID,
		ActorID: actor.ID,
		Kind:    kind,
		PostID:  postID,
		Read:    f.rng.Intn(100) < 60,
	}
	return f.db.Create(n).Error
}
