package repository

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// SeedRestaurants returns the demo catalog.
func SeedRestaurants() []model.Restaurant {
	return []model.Restaurant{
		{
			ID:            "1",
			Name:          "Bella Vista",
			Cuisine:       "Italian",
			Description:   "Authentic Italian cooking with handmade pasta and selected wines",
			Image:         "https://images.unsplash.com/photo-1556858878-1982c2ed1041",
			Rating:        4.8,
			PriceRange:    "R$ 80-120",
			Location:      "Vila Madalena",
			Phone:         "(11) 3456-7890",
			OpenHours:     "18:00 - 23:00",
			Features:      []string{"Romantic", "Wine Bar", "Outdoor Seating"},
			OperatingDays: []int{2, 3, 4, 5, 6}, // Tuesday to Saturday
			ClosedDates:   []string{"2024-12-25", "2024-01-01"},
		},
		{
			ID:            "2",
			Name:          "Sakura Sushi",
			Cuisine:       "Japanese",
			Description:   "Traditional Japanese dining with fresh imported fish",
			Image:         "https://images.unsplash.com/photo-1743440164721-a3002bdca43b",
			Rating:        4.9,
			PriceRange:    "R$ 120-180",
			Location:      "Liberdade",
			Phone:         "(11) 2345-6789",
			OpenHours:     "19:00 - 22:30",
			Features:      []string{"Omakase", "Premium", "Sake Bar"},
			OperatingDays: []int{1, 2, 3, 4, 5, 6},
			ClosedDates:   []string{"2024-12-25", "2024-12-31", "2024-01-01"},
		},
		{
			ID:            "3",
			Name:          "Churrascaria Tradição",
			Cuisine:       "Brazilian",
			Description:   "The best of Brazilian barbecue with a salad buffet and side dishes",
			Image:         "https://images.unsplash.com/photo-1721398624925-38dbb09fac27",
			Rating:        4.6,
			PriceRange:    "R$ 70-100",
			Location:      "Moema",
			Phone:         "(11) 4567-8901",
			OpenHours:     "18:30 - 23:30",
			Features:      []string{"All You Can Eat", "Family Friendly", "Parking"},
			OperatingDays: []int{0, 1, 2, 3, 4, 5, 6},
			ClosedDates:   []string{"2024-12-25"},
		},
		{
			ID:            "4",
			Name:          "Le Petit Bistro",
			Cuisine:       "French",
			Description:   "Cosy French bistro with classic dishes and a special wine list",
			Image:         "https://images.unsplash.com/photo-1556858878-1982c2ed1041",
			Rating:        4.7,
			PriceRange:    "R$ 90-150",
			Location:      "Jardins",
			Phone:         "(11) 5678-9012",
			OpenHours:     "19:00 - 24:00",
			Features:      []string{"Wine Pairing", "Cozy", "Chef's Table"},
			OperatingDays: []int{3, 4, 5, 6, 0},
			ClosedDates:   []string{"2024-12-24", "2024-12-25", "2024-01-01"},
		},
		{
			ID:            "5",
			Name:          "Taco Libre",
			Cuisine:       "Mexican",
			Description:   "Authentic Mexican flavours with signature drinks in a relaxed setting",
			Image:         "https://images.unsplash.com/photo-1721398624925-38dbb09fac27",
			Rating:        4.4,
			PriceRange:    "R$ 50-80",
			Location:      "Pinheiros",
			Phone:         "(11) 6789-0123",
			OpenHours:     "18:00 - 02:00",
			Features:      []string{"Happy Hour", "Live Music", "Cocktails"},
			OperatingDays: []int{3, 4, 5, 6, 0},
			ClosedDates:   []string{"2024-12-25", "2024-01-01"},
		},
		{
			ID:            "6",
			Name:          "Vegetariano & Cia",
			Cuisine:       "Vegetarian",
			Description:   "Creative plant-based cooking with organic, local ingredients",
			Image:         "https://images.unsplash.com/photo-1743440164721-a3002bdca43b",
			Rating:        4.5,
			PriceRange:    "R$ 60-90",
			Location:      "Vila Olímpia",
			Phone:         "(11) 7890-1234",
			OpenHours:     "17:30 - 22:00",
			Features:      []string{"Organic", "Vegan Options", "Healthy"},
			OperatingDays: []int{1, 2, 3, 4, 5},
			ClosedDates:   []string{"2024-12-23", "2024-12-24", "2024-12-25", "2024-12-30", "2024-12-31", "2024-01-01"},
		},
	}
}

// SeedTables returns the demo floor plan.  Table 3 is out of service.
func SeedTables() []model.Table {
	return []model.Table{
		{ID: "1", Number: 1, Seats: 2, Available: true, Position: model.Position{X: 20, Y: 20}},
		{ID: "2", Number: 2, Seats: 4, Available: true, Position: model.Position{X: 60, Y: 20}},
		{ID: "3", Number: 3, Seats: 6, Available: false, Position: model.Position{X: 20, Y: 60}},
		{ID: "4", Number: 4, Seats: 2, Available: true, Position: model.Position{X: 60, Y: 60}},
		{ID: "5", Number: 5, Seats: 4, Available: true, Position: model.Position{X: 40, Y: 40}},
		{ID: "6", Number: 6, Seats: 8, Available: true, Position: model.Position{X: 80, Y: 40}},
	}
}

// SeedLedger returns the demo ledger.  2025-01-12 is fully booked for
// every available table.
func SeedLedger() map[string][]model.LedgerEntry {
	full := make([]model.LedgerEntry, 0, 5*len(model.TimeSlots))
	for _, table := range []string{"1", "2", "4", "5", "6"} {
		for _, slot := range model.TimeSlots {
			full = append(full, model.LedgerEntry{TableID: table, Time: slot})
		}
	}
	return map[string][]model.LedgerEntry{
		"2025-01-10": {
			{TableID: "1", Time: "19:00"},
			{TableID: "1", Time: "21:00"},
			{TableID: "2", Time: "18:00"},
			{TableID: "3", Time: "20:00"},
		},
		"2025-01-11": {
			{TableID: "1", Time: "18:00"},
			{TableID: "2", Time: "19:00"},
			{TableID: "2", Time: "20:00"},
			{TableID: "4", Time: "19:30"},
		},
		"2025-01-12": full,
	}
}
