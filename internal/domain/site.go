package domain

// Site is a read-only map marker served to the frontend.
type Site struct {
	ID   string  `json:"id"   db:"id"`
	Name string  `json:"name" db:"name"`
	Lat  float64 `json:"lat"  db:"lat"`
	Lon  float64 `json:"lon"  db:"lon"`
}
