package service

import (
	"math"
	"sort"

	"vinalysis/internal/httpapi/models"
)

// Stats is the aggregate view over a set of ratings. Median, Mode, Highest
// and Lowest are undefined when Count is 0 and left at their zero values;
// callers must guard on Count before reading them.
type Stats struct {
	Count              int
	Average            float64 // mean, one decimal place; 0 when empty
	UniqueArtists      int     // distinct artist strings, exact-string identity
	Median             float64
	Mode               float64 // most common rating, smallest value wins ties
	ListenedCount      int
	ListenedPercentage float64
	Highest            float64
	Lowest             float64
	Distribution       map[int]int // buckets 1..5 keyed by floor(rating)
}

// ComputeStats derives aggregate metrics from a user's ratings. Ratings are
// expected to carry their Album association for the unique-artist count.
// Pure function of the input: no hidden state, no I/O.
func ComputeStats(ratings []models.Rating) Stats {
	stats := Stats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	stats.Count = len(ratings)
	if stats.Count == 0 {
		return stats
	}

	values := make([]float64, 0, len(ratings))
	artists := make(map[string]struct{})
	sum := 0.0

	for _, r := range ratings {
		values = append(values, r.Rating)
		sum += r.Rating
		artists[r.Album.Artist] = struct{}{}

		if r.Listened {
			stats.ListenedCount++
		}

		// A value in [0,1) floors below the lowest bucket and is dropped
		// from the distribution entirely; it still counts everywhere else.
		bucket := int(math.Floor(r.Rating))
		if bucket >= 1 && bucket <= 5 {
			stats.Distribution[bucket]++
		}
	}

	stats.Average = round1(sum / float64(stats.Count))
	stats.UniqueArtists = len(artists)
	stats.ListenedPercentage = round1(float64(stats.ListenedCount) / float64(stats.Count) * 100)

	sort.Float64s(values)
	stats.Lowest = values[0]
	stats.Highest = values[len(values)-1]
	stats.Median = round1(median(values))
	stats.Mode = mode(values)

	return stats
}

// median expects values sorted ascending and non-empty.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// mode returns the most frequent value; ties go to the smallest value so
// the result never depends on map iteration order.
func mode(values []float64) float64 {
	freq := make(map[float64]int)
	for _, v := range values {
		freq[v]++
	}

	best := values[0]
	bestCount := 0
	for v, count := range freq {
		if count > bestCount || (count == bestCount && v < best) {
			best = v
			bestCount = count
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
