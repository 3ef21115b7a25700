package dto

// StatsResponse is the aggregate view over one user's rating history.
// The detailed fields (median, mode, extremes, listened rate) are rendered
// with one decimal place and omitted entirely when the user has no ratings,
// since they are undefined over an empty set.
type StatsResponse struct {
	TotalRated         int            `json:"total_rated"`
	AverageRating      float64        `json:"average_rating"`
	UniqueArtists      int            `json:"unique_artists"`
	Median             string         `json:"median,omitempty"`
	MostCommonRating   string         `json:"most_common_rating,omitempty"`
	ListenedCount      int            `json:"listened_count"`
	ListenedPercentage string         `json:"listened_percentage,omitempty"`
	HighestRating      string         `json:"highest_rating,omitempty"`
	LowestRating       string         `json:"lowest_rating,omitempty"`
	Distribution       map[string]int `json:"distribution"`
}
