package main

// keyDirections maps browser KeyboardEvent.key values onto directions.
// WASD mirrors the arrows.
var keyDirections = map[string]Direction{
	"ArrowUp":    DirUp,
	"ArrowDown":  DirDown,
	"ArrowLeft":  DirLeft,
	"ArrowRight": DirRight,
	"w":          DirUp,
	"W":          DirUp,
	"s":          DirDown,
	"S":          DirDown,
	"a":          DirLeft,
	"A":          DirLeft,
	"d":          DirRight,
	"D":          DirRight,
}

// ParseKey returns the direction bound to key, if any
func ParseKey(key string) (Direction, bool) {
	d, ok := keyDirections[key]
	return d, ok
}

func isRestartKey(key string) bool {
	return key == "r" || key == "R"
}
