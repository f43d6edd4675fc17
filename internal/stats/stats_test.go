package stats

import (
	"testing"
	"time"

	"harmonic/internal/models"
)

func item(typ string, rating int, status, logged string) models.MediaItem {
	return models.MediaItem{Type: typ, Rating: rating, Status: status, LoggedDate: logged}
}

func TestCountByType(t *testing.T) {
	items := []models.MediaItem{
		item(models.MediaTypeBook, 8, models.MediaStatusCompleted, "2025-01-10"),
		item(models.MediaTypeBook, 0, models.MediaStatusPlanned, "2025-02-01"),
		item(models.MediaTypeMovie, 7, models.MediaStatusCompleted, "2025-02-14"),
	}

	counts := CountByType(items)
	if counts.Total != 3 {
		t.Fatalf("expected total 3, got %d", counts.Total)
	}
	if counts.ByType[models.MediaTypeBook] != 2 {
		t.Errorf("expected 2 books, got %d", counts.ByType[models.MediaTypeBook])
	}
	if counts.ByType[models.MediaTypeMovie] != 1 {
		t.Errorf("expected 1 movie, got %d", counts.ByType[models.MediaTypeMovie])
	}
	if counts.ByType[models.MediaTypeGame] != 0 {
		t.Errorf("expected 0 games, got %d", counts.ByType[models.MediaTypeGame])
	}
}

func TestDistributionPercentages(t *testing.T) {
	items := []models.MediaItem{
		item(models.MediaTypeBook, 0, models.MediaStatusPlanned, ""),
		item(models.MediaTypeBook, 0, models.MediaStatusPlanned, ""),
		item(models.MediaTypeBook, 0, models.MediaStatusPlanned, ""),
		item(models.MediaTypeMovie, 0, models.MediaStatusPlanned, ""),
	}

	shares := Distribution(items)
	if len(shares) != len(MediaTypes) {
		t.Fatalf("expected %d shares, got %d", len(MediaTypes), len(shares))
	}
	got := make(map[string]CategoryShare)
	for _, s := range shares {
		got[s.Type] = s
	}
	if got[models.MediaTypeBook].Percentage != 75 {
		t.Errorf("expected books at 75%%, got %d", got[models.MediaTypeBook].Percentage)
	}
	if got[models.MediaTypeMovie].Percentage != 25 {
		t.Errorf("expected movies at 25%%, got %d", got[models.MediaTypeMovie].Percentage)
	}
}

func TestDistributionEmpty(t *testing.T) {
	shares := Distribution(nil)
	for _, s := range shares {
		if s.Count != 0 || s.Percentage != 0 {
			t.Errorf("expected zero share for %s, got %+v", s.Type, s)
		}
	}
}

func TestStatusCounts(t *testing.T) {
	items := []models.MediaItem{
		item(models.MediaTypeBook, 0, models.MediaStatusCompleted, ""),
		item(models.MediaTypeBook, 0, models.MediaStatusCompleted, ""),
		item(models.MediaTypeGame, 0, models.MediaStatusInProgress, ""),
		item(models.MediaTypeGame, 0, "bogus", ""),
	}

	counts := StatusCounts(items)
	if counts[models.MediaStatusCompleted] != 2 {
		t.Errorf("expected 2 completed, got %d", counts[models.MediaStatusCompleted])
	}
	if counts[models.MediaStatusInProgress] != 1 {
		t.Errorf("expected 1 in progress, got %d", counts[models.MediaStatusInProgress])
	}
	if counts[models.MediaStatusDropped] != 0 {
		t.Errorf("expected 0 dropped, got %d", counts[models.MediaStatusDropped])
	}
}

func TestAverageRatingSkipsUnrated(t *testing.T) {
	items := []models.MediaItem{
		item(models.MediaTypeBook, 8, models.MediaStatusCompleted, ""),
		item(models.MediaTypeBook, 7, models.MediaStatusCompleted, ""),
		item(models.MediaTypeBook, 0, models.MediaStatusPlanned, ""),
	}

	if avg := AverageRating(items); avg != 7.5 {
		t.Errorf("expected 7.5, got %v", avg)
	}
	if avg := AverageRating(nil); avg != 0 {
		t.Errorf("expected 0 for empty input, got %v", avg)
	}
}

func TestAverageRatingRounding(t *testing.T) {
	items := []models.MediaItem{
		item(models.MediaTypeBook, 7, models.MediaStatusCompleted, ""),
		item(models.MediaTypeBook, 7, models.MediaStatusCompleted, ""),
		item(models.MediaTypeBook, 8, models.MediaStatusCompleted, ""),
	}
	// 22/3 = 7.333..., rounds to 7.3.
	if avg := AverageRating(items); avg != 7.3 {
		t.Errorf("expected 7.3, got %v", avg)
	}
}

func TestAverageRatingByType(t *testing.T) {
	items := []models.MediaItem{
		item(models.MediaTypeBook, 8, models.MediaStatusCompleted, ""),
		item(models.MediaTypeBook, 6, models.MediaStatusCompleted, ""),
		item(models.MediaTypeMovie, 9, models.MediaStatusCompleted, ""),
		item(models.MediaTypeGame, 0, models.MediaStatusPlanned, ""),
	}

	avgs := AverageRatingByType(items)
	if avgs[models.MediaTypeBook] != 7.0 {
		t.Errorf("expected book avg 7.0, got %v", avgs[models.MediaTypeBook])
	}
	if avgs[models.MediaTypeMovie] != 9.0 {
		t.Errorf("expected movie avg 9.0, got %v", avgs[models.MediaTypeMovie])
	}
	if avgs[models.MediaTypeGame] != 0 {
		t.Errorf("expected game avg 0, got %v", avgs[models.MediaTypeGame])
	}
}

func TestTopRated(t *testing.T) {
	items := []models.MediaItem{
		{Title: "mid", Type: models.MediaTypeBook, Rating: 6},
		{Title: "best", Type: models.MediaTypeMovie, Rating: 10},
		{Title: "unrated", Type: models.MediaTypeGame, Rating: 0},
		{Title: "good", Type: models.MediaTypeBook, Rating: 8},
	}

	top := TopRated(items, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 items, got %d", len(top))
	}
	if top[0].Title != "best" || top[1].Title != "good" {
		t.Errorf("unexpected order: %s, %s", top[0].Title, top[1].Title)
	}
}

func TestTopRatedTieKeepsInputOrder(t *testing.T) {
	items := []models.MediaItem{
		{Title: "first", Rating: 8},
		{Title: "second", Rating: 8},
	}
	top := TopRated(items, 0)
	if top[0].Title != "first" || top[1].Title != "second" {
		t.Errorf("tie order not stable: %s, %s", top[0].Title, top[1].Title)
	}
}

func TestMonthlyActivity(t *testing.T) {
	created := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	items := []models.MediaItem{
		item(models.MediaTypeBook, 0, models.MediaStatusCompleted, "2025-01-10"),
		item(models.MediaTypeBook, 0, models.MediaStatusCompleted, "2025-01-22"),
		item(models.MediaTypeMovie, 0, models.MediaStatusCompleted, "2025-02-03"),
		{Type: models.MediaTypeGame, CreatedAt: created}, // no logged date, falls back
	}

	activity := MonthlyActivity(items, 12)
	want := []MonthActivity{
		{Month: "2025-01", Count: 2},
		{Month: "2025-02", Count: 1},
		{Month: "2025-03", Count: 1},
	}
	if len(activity) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(activity))
	}
	for i := range want {
		if activity[i] != want[i] {
			t.Errorf("bucket %d: expected %+v, got %+v", i, want[i], activity[i])
		}
	}
}

func TestMonthlyActivityWindow(t *testing.T) {
	items := []models.MediaItem{
		item(models.MediaTypeBook, 0, "", "2024-01-01"),
		item(models.MediaTypeBook, 0, "", "2024-06-01"),
		item(models.MediaTypeBook, 0, "", "2024-12-01"),
	}
	activity := MonthlyActivity(items, 2)
	if len(activity) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(activity))
	}
	if activity[0].Month != "2024-06" || activity[1].Month != "2024-12" {
		t.Errorf("expected the two most recent months, got %v", activity)
	}
}

func TestRecent(t *testing.T) {
	base := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	items := []models.MediaItem{
		{Title: "old", CreatedAt: base},
		{Title: "new", CreatedAt: base.Add(48 * time.Hour)},
		{Title: "mid", CreatedAt: base.Add(24 * time.Hour)},
	}

	recent := Recent(items, 2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 items, got %d", len(recent))
	}
	if recent[0].Title != "new" || recent[1].Title != "mid" {
		t.Errorf("unexpected order: %s, %s", recent[0].Title, recent[1].Title)
	}
	// Input must not be reordered.
	if items[0].Title != "old" {
		t.Errorf("input slice was mutated")
	}
}
