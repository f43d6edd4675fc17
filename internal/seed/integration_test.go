//go:build integration

package seed

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"harmonic/internal/config"
	"harmonic/internal/database"
	"harmonic/internal/models"
)

func parseDatabaseURLToConfig(dsn string) (*config.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	password := ""
	if u.User != nil {
		password, _ = u.User.Password()
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	dbname := strings.TrimPrefix(u.Path, "/")
	cfg := &config.Config{
		DBHost:       host,
		DBPort:       port,
		DBUser:       u.User.Username(),
		DBPassword:   password,
		DBName:       dbname,
		DBSSLMode:    "disable",
		Env:          "test",
		DBSchemaMode: "auto",
	}
	return cfg, nil
}

func TestIntegration_SeedStarterPreset(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration seed test")
	}
	cfg, err := parseDatabaseURLToConfig(dsn)
	if err != nil {
		t.Fatalf("failed parse dsn: %v", err)
	}
	// connect and apply schema
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}

	seeder := NewSeeder(db, SeedOptions{SkipBcrypt: true, BatchSize: 50, MaxDays: 30})
	if err := seeder.ClearAll(); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}

	users, meshErr := seeder.SeedSocialMesh(10)
	if meshErr != nil {
		t.Fatalf("SeedSocialMesh failed: %v", meshErr)
	}
	if _, engErr := seeder.SeedEngagement(users, 60); engErr != nil {
		t.Fatalf("SeedEngagement failed: %v", engErr)
	}
	if mediaErr := seeder.SeedMediaLibraries(users, 5); mediaErr != nil {
		t.Fatalf("SeedMediaLibraries failed: %v", mediaErr)
	}

	// basic validation: posts, votes and media all landed
	var posts, votes, media int64
	if err := db.Model(&models.Post{}).Count(&posts).Error; err != nil {
		t.Fatalf("count posts failed: %v", err)
	}
	if posts == 0 {
		t.Fatalf("expected seeded posts, got 0")
	}
	if err := db.Model(&models.Vote{}).Count(&votes).Error; err != nil {
		t.Fatalf("count votes failed: %v", err)
	}
	if err := db.Model(&models.MediaItem{}).Count(&media).Error; err != nil {
		t.Fatalf("count media failed: %v", err)
	}
	if media == 0 {
		t.Fatalf("expected seeded media entries, got 0")
	}
}
