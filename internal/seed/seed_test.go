package seed

import "testing"

func TestComputeCounts_Default(t *testing.T) {
	thought, review, story := computeCounts(10, defaultDistribution)
	if thought+review+story != 10 {
		t.Fatalf("sum mismatch: got %d", thought+review+story)
	}
	if thought != 5 || review != 3 || story != 2 {
		t.Fatalf("unexpected default counts: thought=%d, review=%d, story=%d", thought, review, story)
	}
}

func TestComputeCounts_ReviewHeavy(t *testing.T) {
	d, ok := CategoryDistributions["review-heavy"]
	if !ok {
		t.Fatalf("review-heavy distribution not found")
	}
	thought, review, story := computeCounts(10, d)
	if thought+review+story != 10 {
		t.Fatalf("sum mismatch: got %d", thought+review+story)
	}
	if thought != 2 || review != 6 || story != 2 {
		t.Fatalf("unexpected review-heavy counts: thought=%d, review=%d, story=%d", thought, review, story)
	}
}

func TestComputeCounts_RemainderGoesToThoughts(t *testing.T) {
	// Odd totals cannot split evenly; the remainder lands in thoughts.
	thought, review, story := computeCounts(7, defaultDistribution)
	if thought+review+story != 7 {
		t.Fatalf("sum mismatch: got %d", thought+review+story)
	}
	if review != 2 || story != 1 || thought != 4 {
		t.Fatalf("unexpected counts: thought=%d, review=%d, story=%d", thought, review, story)
	}
}
