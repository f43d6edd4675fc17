package seed

import (
	"fmt"
	"log"

	"harmonic/internal/models"

	"gorm.io/gorm"
)

// Seeder presets runnable by name from the CLI or bootstrap.
const (
	// PresetStarter is the small data set seeded into empty development
	// databases: a handful of users with friendships, posts and media.
	PresetStarter = "starter"
	// PresetMegaPopulated approximates a busy instance.
	PresetMegaPopulated = "mega-populated"
)

var (
	avatarEmojis = []string{
		"🎧", "📚", "🎬", "🎮", "🎸", "🍿", "🌙", "🦊", "🐙", "🌵",
		"☕", "🧩", "🎹", "📺", "🚀", "🪐", "🌊", "🍜", "🦉", "🔥",
	}

	mediaTypePool = []string{
		models.MediaTypeBook,
		models.MediaTypeMovie,
		models.MediaTypeGame,
		models.MediaTypeSeries,
		models.MediaTypeAnime,
		models.MediaTypeMusic,
	}

	// Real-sounding titles keep seeded feeds readable during demos.
	mediaTitles = map[string][]string{
		models.MediaTypeBook: {
			"The Left Hand of Darkness", "Dune", "Snow Crash", "Piranesi",
			"Project Hail Mary", "The Dispossessed", "A Memory Called Empire",
			"The Name of the Wind", "Hyperion", "The Fifth Season",
		},
		models.MediaTypeMovie: {
			"Blade Runner 2049", "Arrival", "The Grand Budapest Hotel",
			"Everything Everywhere All at Once", "Parasite", "Whiplash",
			"Mad Max: Fury Road", "Her", "The Prestige",
		},
		models.MediaTypeGame: {
			"Hades", "Outer Wilds", "Hollow Knight", "Disco Elysium",
			"Celeste", "Stardew Valley", "Return of the Obra Dinn",
			"Slay the Spire", "Baldur's Gate 3",
		},
		models.MediaTypeSeries: {
			"The Expanse", "Severance", "Dark", "The Wire",
			"Station Eleven", "Andor", "Better Call Saul",
		},
		models.MediaTypeAnime: {
			"Cowboy Bebop", "Frieren: Beyond Journey's End", "Mushishi",
			"Fullmetal Alchemist: Brotherhood", "Vinland Saga", "Mob Psycho 100",
		},
		models.MediaTypeMusic: {
			"In Rainbows", "Blonde", "Random Access Memories",
			"To Pimp a Butterfly", "Vespertine", "Discovery", "Punisher",
		},
	}

	gamePlatforms = []string{"PC", "Switch", "PS5", "Xbox", "Steam Deck"}
)

// Distribution weights generated posts across the composer categories.
// Values are percentages and should sum to 100.
type Distribution struct {
	Thought int
	Review  int
	Story   int
}

var defaultDistribution = Distribution{Thought: 50, Review: 30, Story: 20}

// CategoryDistributions holds named post category mixes for presets that
// want a different feed flavor than the default.
var CategoryDistributions = map[string]Distribution{
	"default":      defaultDistribution,
	"review-heavy": {Thought: 20, Review: 60, Story: 20},
	"chatty":       {Thought: 80, Review: 10, Story: 10},
}

// computeCounts splits total across the distribution, giving the remainder
// to the first bucket so the counts always sum to total.
func computeCounts(total int, d Distribution) (thought, review, story int) {
	review = total * d.Review / 100
	story = total * d.Story / 100
	thought = total - review - story
	return thought, review, story
}

// Seeder orchestrates multi-entity seeding scenarios on top of Factory.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    SeedOptions
}

// NewSeeder creates a Seeder. Options are optional; the zero value writes
// everything with bcrypt-hashed passwords.
func NewSeeder(db *gorm.DB, opts ...SeedOptions) *Seeder {
	var o SeedOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Seeder{db: db, factory: NewFactory(db, o), opts: o}
}

// ClearAll removes all seedable data. PostgreSQL only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, votes, posts, media_items, friendships, notifications, cover_images, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedSocialMesh creates numUsers users and connects them with a
// friendship mesh: every user gets a few accepted friends plus the
// occasional pending request so the requests inbox is not empty.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]models.User, error) {
	if numUsers < 2 {
		return nil, fmt.Errorf("social mesh needs at least 2 users, got %d", numUsers)
	}

	users := make([]models.User, 0, numUsers)

	// Stable logins for manual testing when the database was cleaned.
	baseUsers := []string{"ada", "linus", "test"}
	for i, name := range baseUsers {
		if i >= numUsers {
			break
		}
		u, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = name
			u.Email = fmt.Sprintf("%s@example.com", name)
			u.DisplayName = name
			u.Bio = "One of the originals."
		})
		if err != nil {
			return nil, fmt.Errorf("create base user %s: %w", name, err)
		}
		users = append(users, *u)
	}

	for i := len(users); i < numUsers; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, *u)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	// Each user befriends the next few users in creation order. Requester
	// IDs are always lower, so no pair appears twice.
	rng := s.factory.rng
	for i := range users {
		friends := rng.Intn(3) + 2
		for j := i + 1; j <= i+friends && j < len(users); j++ {
			status := models.FriendshipStatusAccepted
			if rng.Intn(100) < 15 {
				status = models.FriendshipStatusPending
			}
			if err := s.factory.CreateFriendship(&users[i], &users[j], status); err != nil {
				return nil, fmt.Errorf("create friendship %d->%d: %w", users[i].ID, users[j].ID, err)
			}
		}
	}

	log.Printf("✓ %d users created with friendship mesh", len(users))
	return users, nil
}

// SeedEngagement creates numPosts posts spread across the users with the
// default category distribution, then layers votes, comments and their
// notifications on top.
func (s *Seeder) SeedEngagement(users []models.User, numPosts int) ([]models.Post, error) {
	return s.SeedEngagementWithDistribution(users, numPosts, defaultDistribution)
}

// SeedEngagementWithDistribution is SeedEngagement with an explicit
// post category mix.
func (s *Seeder) SeedEngagementWithDistribution(users []models.User, numPosts int, dist Distribution) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to seed engagement for")
	}

	rng := s.factory.rng
	thought, review, story := computeCounts(numPosts, dist)

	posts := make([]*models.Post, 0, numPosts)
	appendPosts := func(count int, category string) {
		for i := 0; i < count; i++ {
			user := users[rng.Intn(len(users))]
			posts = append(posts, s.factory.BuildPost(&user, category))
		}
	}
	appendPosts(thought, models.PostCategoryThought)
	appendPosts(review, models.PostCategoryReview)
	appendPosts(story, models.PostCategoryStory)

	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	log.Printf("✓ %d posts created (%d thoughts, %d reviews, %d stories)", len(posts), thought, review, story)

	// Votes and comments, skewed so some posts are popular and most are
	// quiet. Voters are unique per post, matching the toggle constraint.
	var votes, comments int
	for _, post := range posts {
		engagement := rng.Intn(len(users))
		if engagement > 12 {
			engagement = 12
		}
		perm := rng.Perm(len(users))
		for _, idx := range perm[:engagement] {
			voter := users[idx]
			if voter.ID == post.UserID {
				continue
			}
			if err := s.factory.CreateVote(&voter, post); err != nil {
				return nil, fmt.Errorf("create vote: %w", err)
			}
			votes++
			if err := s.factory.CreateNotification(&models.User{ID: post.UserID}, &voter, models.NotificationVote, &post.ID); err != nil {
				return nil, fmt.Errorf("create vote notification: %w", err)
			}

			if rng.Intn(100) < 35 {
				if _, err := s.factory.CreateComment(&voter, post); err != nil {
					return nil, fmt.Errorf("create comment: %w", err)
				}
				comments++
				if err := s.factory.CreateNotification(&models.User{ID: post.UserID}, &voter, models.NotificationComment, &post.ID); err != nil {
					return nil, fmt.Errorf("create comment notification: %w", err)
				}
			}
		}
	}
	log.Printf("✓ %d votes and %d comments created", votes, comments)

	result := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		result = append(result, *p)
	}
	return result, nil
}

// SeedMediaLibraries gives every user a logged media library of roughly
// perUser entries across all media types.
func (s *Seeder) SeedMediaLibraries(users []models.User, perUser int) error {
	if perUser <= 0 {
		return nil
	}
	rng := s.factory.rng
	total := 0
	for i := range users {
		count := perUser/2 + rng.Intn(perUser+1)
		for j := 0; j < count; j++ {
			mediaType := mediaTypePool[rng.Intn(len(mediaTypePool))]
			if _, err := s.factory.CreateMediaItem(&users[i], mediaType); err != nil {
				return fmt.Errorf("create media item for user %d: %w", users[i].ID, err)
			}
			total++
		}
	}
	log.Printf("✓ %d media entries created", total)
	return nil
}

// ApplyPreset runs a named seeding scenario.
func (s *Seeder) ApplyPreset(name string) error {
	switch name {
	case PresetStarter:
		users, err := s.SeedSocialMesh(12)
		if err != nil {
			return err
		}
		if _, err := s.SeedEngagement(users, 40); err != nil {
			return err
		}
		return s.SeedMediaLibraries(users, 6)
	case PresetMegaPopulated:
		users, err := s.SeedSocialMesh(200)
		if err != nil {
			return err
		}
		if _, err := s.SeedEngagement(users, 1000); err != nil {
			return err
		}
		return s.SeedMediaLibraries(users, 15)
	default:
		return fmt.Errorf("unknown seeder preset %q", name)
	}
}
