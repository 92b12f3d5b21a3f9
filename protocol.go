package main

// Protocol uses single-character JSON keys to minimize wire size.
// Positions are in cell units, rounded to 2 decimal places.
//
// Message type constants (value of "t" field):
//   Client → Server:
//     "j" = join    {"t":"j","a":1}          (a=autopilot 0/1)
//     "k" = key     {"t":"k","k":"ArrowUp"}  (KeyboardEvent.key)
//     "r" = restart {"t":"r"}
//   Server → Client:
//     "w" = welcome {"t":"w","i":"id","g":20,"c":1,"m":120}
//     "s" = state   {"t":"s","p":[placements],"x":[removed ids],"sc":10,"r":1}
//     "o" = over    {"t":"o","c":"wall","p":40}
//     "e" = error   {"t":"e","m":"Server full"}
//
// PlacementDTO: {"i":7,"k":"b","p":[x,y,z],"o":0.4,"z":0.8}
//   k = kind (h head, b body, f food, s shot, x particle); o/z only for particles

// Message type identifiers, single-char for the compact protocol
const (
	MsgJoin    = "j"
	MsgKey     = "k"
	MsgRestart = "r"
	MsgWelcome = "w"
	MsgState   = "s"
	MsgOver    = "o"
	MsgError   = "e"
)

// ClientMessage is the base incoming message from the browser.
type ClientMessage struct {
	Type      string `json:"t"`
	Key       string `json:"k,omitempty"`
	Autopilot int    `json:"a,omitempty"` // 0 or 1
}

// WelcomeMsg is sent immediately on WebSocket connect so the client can
// build the board before the first state arrives.
type WelcomeMsg struct {
	Type         string  `json:"t"`
	ID           string  `json:"i"`
	GridSize     int     `json:"g"`
	CellSize     float64 `json:"c"`
	MoveInterval int     `json:"m"` // ms
}

// PlacementDTO positions one entity
type PlacementDTO struct {
	ID      EntityID   `json:"i"`
	Kind    string     `json:"k"`
	Pos     [3]float64 `json:"p"`
	Opacity float64    `json:"o,omitempty"`
	Scale   float64    `json:"z,omitempty"`
}

// StateMsg is the per-frame scene update.
// Removed lists entities the client must drop before applying placements.
type StateMsg struct {
	Type       string         `json:"t"`
	Placements []PlacementDTO `json:"p"`
	Removed    []EntityID     `json:"x,omitempty"`
	Score      int            `json:"sc"`
	Running    int            `json:"r"` // 0 or 1
}

// OverMsg is sent once when the game ends.
// c = cause (wall, self, bullet), p = final score
type OverMsg struct {
	Type  string `json:"t"`
	Cause string `json:"c"`
	Score int    `json:"p"`
}

// ErrorMsg reports a refused connection before it is closed
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}
