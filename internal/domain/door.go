package domain

// DoorGame is a title screen for a door game that never actually starts.
type DoorGame struct {
	Name    string
	Year    int
	Company string
	Tagline string
}
