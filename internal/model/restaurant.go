package model

// Restaurant is an entry of the static catalog.  Restaurants are
// reference data: the application never creates or edits them.
//
// Fields:
//  ID            – catalog identifier.
//  Name          – display name.
//  Cuisine       – cuisine label used by the catalog filters.
//  Description   – short marketing text.
//  Image         – cover image URL.
//  Rating        – average rating (0..5).
//  PriceRange    – free-form price range text.
//  Location      – neighbourhood, used by the catalog filters.
//  Phone         – contact phone.
//  OpenHours     – opening hours text (display only).
//  Features      – descriptive tags.
//  OperatingDays – weekdays on which reservations are accepted (0=Sunday..6=Saturday).
//  ClosedDates   – specific YYYY-MM-DD dates on which the restaurant is closed.
type Restaurant struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Cuisine       string   `json:"cuisine"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Rating        float64  `json:"rating"`
	PriceRange    string   `json:"price_range"`
	Location      string   `json:"location"`
	Phone         string   `json:"phone"`
	OpenHours     string   `json:"open_hours"`
	Features      []string `json:"features"`
	OperatingDays []int    `json:"operating_days"`
	ClosedDates   []string `json:"closed_dates,omitempty"`
}

// OpensOn reports whether weekday (0=Sunday) is one of the operating days.
func (r Restaurant) OpensOn(weekday int) bool {
	for _, d := range r.OperatingDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// ClosedOn reports whether the ISO date is listed in ClosedDates.
func (r Restaurant) ClosedOn(isoDate string) bool {
	for _, d := range r.ClosedDates {
		if d == isoDate {
			return true
		}
	}
	return false
}

// WeekdayNames maps weekday numbers to the names used in availability messages.
var WeekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
