package seed

import (
	"testing"

	"harmonic/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedSocialMesh_CreatesFriendshipMesh(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if migrateErr := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
	); migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}

	seeder := NewSeeder(db, SeedOptions{SkipBcrypt: true})
	users, err := seeder.SeedSocialMesh(8)
	if err != nil {
		t.Fatalf("seed social mesh: %v", err)
	}
	if len(users) != 8 {
		t.Fatalf("expected 8 users, got %d", len(users))
	}

	// Stable logins come first so a cleaned database stays usable.
	var ada models.User
	if err := db.Where("username = ?", "ada").First(&ada).Error; err != nil {
		t.Fatalf("base user ada not seeded: %v", err)
	}

	var friendships []models.Friendship
	if err := db.Find(&friendships).Error; err != nil {
		t.Fatalf("load friendships: %v", err)
	}
	if len(friendships) == 0 {
		t.Fatal("expected seeded friendships")
	}

	seen := map[[2]uint]bool{}
	for _, fr := range friendships {
		if fr.RequesterID == fr.AddresseeID {
			t.Fatalf("self-friendship seeded for user %d", fr.RequesterID)
		}
		pair := [2]uint{fr.RequesterID, fr.AddresseeID}
		if seen[pair] {
			t.Fatalf("duplicate friendship pair %v", pair)
		}
		seen[pair] = true
		if fr.Status != models.FriendshipStatusAccepted && fr.Status != models.FriendshipStatusPending {
			t.Fatalf("unexpected friendship status %q", fr.Status)
		}
	}
}

func TestSeedSocialMesh_RejectsTinyMesh(t *testing.T) {
	t.Parallel()

	seeder := NewSeeder(nil, SeedOptions{DryRun: true})
	if _, err := seeder.SeedSocialMesh(1); err == nil {
		t.Fatal("expected error for single-user mesh")
	}
}
