// Package stats computes collection statistics over media item snapshots.
// Like the feed package, it is pure: callers pass the already-fetched items
// for one user and get aggregates back.
package stats

import (
	"fmt"
	"math"
	"sort"

	"harmonic/internal/models"
)

// MediaTypes is the canonical ordering of media types in stat breakdowns.
var MediaTypes = []string{
	models.MediaTypeBook,
	models.MediaTypeMovie,
	models.MediaTypeGame,
	models.MediaTypeSeries,
	models.MediaTypeAnime,
	models.MediaTypeMusic,
}

// CategoryCounts holds per-type item counts plus the total.
type CategoryCounts struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
}

// CountByType tallies items per media type.
func CountByType(items []models.MediaItem) CategoryCounts {
	counts := CategoryCounts{ByType: make(map[string]int, len(MediaTypes))}
	for _, t := range MediaTypes {
		counts.ByType[t] = 0
	}
	for _, it := range items {
		if _, ok := counts.ByType[it.Type]; ok {
			counts.ByType[it.Type]++
		}
		counts.Total++
	}
	return counts
}

// CategoryShare is one slice of the category distribution.
type CategoryShare struct {
	Type       string `json:"type"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Distribution returns the per-type share of the collection, in canonical
// type order. Percentages are rounded and computed against the full total.
func Distribution(items []models.MediaItem) []CategoryShare {
	counts := CountByType(items)
	total := counts.Total
	if total == 0 {
		total = 1
	}
	out := make([]CategoryShare, 0, len(MediaTypes))
	for _, t := range MediaTypes {
		c := counts.ByType[t]
		out = append(out, CategoryShare{
			Type:       t,
			Count:      c,
			Percentage: int(math.Round(float64(c) / float64(total) * 100)),
		})
	}
	return out
}

// StatusCounts tallies items per progress state.
func StatusCounts(items []models.MediaItem) map[string]int {
	statuses := map[string]int{
		models.MediaStatusCompleted:  0,
		models.MediaStatusInProgress: 0,
		models.MediaStatusPlanned:    0,
		models.MediaStatusDropped:    0,
	}
	for _, it := range items {
		if _, ok := statuses[it.Status]; ok {
			statuses[it.Status]++
		}
	}
	return statuses
}

// AverageRating returns the mean rating over rated items (rating > 0),
// rounded to one decimal. Zero when nothing is rated.
func AverageRating(items []models.MediaItem) float64 {
	var sum, n int
	for _, it := range items {
		if it.Rating > 0 {
			sum += it.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// AverageRatingByType returns the mean rating per media type over rated
// items, rounded to one decimal.
func AverageRatingByType(items []models.MediaItem) map[string]float64 {
	sums := make(map[string]int)
	ns := make(map[string]int)
	for _, it := range items {
		if it.Rating > 0 {
			sums[it.Type] += it.Rating
			ns[it.Type]++
		}
	}
	out := make(map[string]float64, len(MediaTypes))
	for _, t := range MediaTypes {
		if ns[t] == 0 {
			out[t] = 0
			continue
		}
		out[t] = math.Round(float64(sums[t])/float64(ns[t])*10) / 10
	}
	return out
}

// TopRated returns up to limit rated items sorted by rating descending.
// Ties keep input order.
func TopRated(items []models.MediaItem, limit int) []models.MediaItem {
	rated := make([]models.MediaItem, 0, len(items))
	for _, it := range items {
		if it.Rating > 0 {
			rated = append(rated, it)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Rating > rated[j].Rating
	})
	if limit > 0 && len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}

// MonthActivity is the number of items logged in one calendar month.
type MonthActivity struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// MonthlyActivity buckets items by the month of their logged date (falling
// back to CreatedAt when unset) and returns the most recent `months` buckets
// in ascending order, ready for a bar chart.
func MonthlyActivity(items []models.MediaItem, months int) []MonthActivity {
	buckets := make(map[string]int)
	for _, it := range items {
		m := monthOf(it)
		if m == "" {
			continue
		}
		buckets[m]++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// Lexicographic order equals chronological order for YYYY-MM.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if months > 0 && len(keys) > months {
		keys = keys[:months]
	}
	sort.Strings(keys)

	out := make([]MonthActivity, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthActivity{Month: k, Count: buckets[k]})
	}
	return out
}

func monthOf(it models.MediaItem) string {
	if len(it.LoggedDate) >= 7 {
		return it.LoggedDate[:7]
	}
	if it.CreatedAt.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", it.CreatedAt.Year(), int(it.CreatedAt.Month()))
}

// Recent returns up to limit items sorted by creation time descending.
func Recent(items []models.MediaItem, limit int) []models.MediaItem {
	sorted := make([]models.MediaItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
