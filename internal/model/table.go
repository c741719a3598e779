package model

// Position places a table on the floor plan.  Coordinates are percentages
// of the plan's width and height.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Table is a physical table of the floor plan.  Available is a static
// flag: an unavailable table is never offered, whatever the ledger says.
type Table struct {
	ID        string   `json:"id"`
	Number    int      `json:"number"`
	Seats     int      `json:"seats"`
	Available bool     `json:"available"`
	Position  Position `json:"position"`
}
