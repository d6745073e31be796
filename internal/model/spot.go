package model

import "time"

// TouristSpot is an editorial entry describing a destination.  Spots are
// created by administrators and browsable by everyone.
type TouristSpot struct {
	ID          uint64    // tourist_spots.id
	Name        string    // tourist_spots.name
	Description string    // tourist_spots.description
	ImageURL    string    // tourist_spots.image_url
	Highlights  string    // tourist_spots.highlights
	TravelInfo  string    // tourist_spots.travel_info
	BestTime    string    // tourist_spots.best_time
	SafetyInfo  string    // tourist_spots.safety_info
	CreatedBy   uint64    // tourist_spots.created_by
	CreatedAt   time.Time // tourist_spots.created_at
	UpdatedAt   time.Time // tourist_spots.updated_at
}
