package models

// RegionalTrend is the purchase count for one movie at one geocoded location
type RegionalTrend struct {
	City           string  `json:"city"`
	State          string  `json:"state"`
	MovieTitle     string  `json:"movie_title"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	TotalPurchases int     `json:"total_purchases"`
}
