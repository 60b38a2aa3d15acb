package simgames

import "time"

// Config holds configuration for the game simulation run
type Config struct {
	BaseURL       string        // Base URL of the review service
	UpstreamAddr  string        // Listen address for the synthetic upstream
	NumGames      int           // Number of games to generate
	EventsPerGame int           // Number of event markers per game
	Readers       int           // Number of concurrent read workers per game
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for generated games
	LogFile       string        // Log file for test output
	Verbose       bool          // Enable verbose logging
}

// Game is one generated game with its full upstream payload.
type Game struct {
	ID       string      `json:"id"`
	Markers  []Marker    `json:"markers"`
	Surfaces []Surface   `json:"surfaces"`
	Job      IngestedJob `json:"job"`
}

// Marker is the wire shape served by the synthetic upstream. Event and
// clip fields share the struct the same way the real backend's payload
// does; Kind discriminates.
type Marker struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`

	EventType   string            `json:"event_type,omitempty"`
	Timestamp   float64           `json:"timestamp,omitempty"`
	FrameNumber int               `json:"frame_number,omitempty"`
	Confidence  *float64          `json:"confidence,omitempty"`
	HasClip     bool              `json:"has_clip,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	ClipCategory  string  `json:"clip_category,omitempty"`
	StartTime     float64 `json:"start_time,omitempty"`
	EndTime       float64 `json:"end_time,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	EventAnchorID string  `json:"event_anchor_id,omitempty"`
}

// Surface is one persona analysis surface served by the synthetic upstream.
type Surface struct {
	ID             string             `json:"id"`
	EventID        string             `json:"event_id"`
	PersonaTag     string             `json:"persona_tag"`
	Scores         map[string]float64 `json:"scores,omitempty"`
	Interpretation string             `json:"interpretation,omitempty"`
}

// IngestedJob is the ingestion job row for a generated game.
type IngestedJob struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`
	Status string `json:"status"`
}

// Selection mirrors the service's selection snapshot response.
type Selection struct {
	GameID          string `json:"game_id"`
	SelectedEventID string `json:"selected_event_id"`
	SelectedClipID  string `json:"selected_clip_id"`
	HoveredEventID  string `json:"hovered_event_id"`
	ManualClip      bool   `json:"manual_clip"`
}

// TimelineEntry mirrors one row of the service's timeline response.
type TimelineEntry struct {
	ID         string   `json:"id"`
	EventType  string   `json:"event_type"`
	Timestamp  float64  `json:"timestamp"`
	Confidence *float64 `json:"confidence"`
	HasClip    bool     `json:"has_clip"`
	FoulType   string   `json:"foul_type"`
}

// Filters mirrors the service's filter criteria response.
type Filters struct {
	EventTypes    []string `json:"event_types"`
	FoulTypes     []string `json:"foul_types"`
	TimeMin       *float64 `json:"time_min"`
	TimeMax       *float64 `json:"time_max"`
	MinConfidence *float64 `json:"min_confidence"`
}

// Analysis mirrors the service's persona analysis response.
type Analysis struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Persona string `json:"persona"`
	Exact   bool   `json:"exact"`
}

// Stats holds simulation statistics
type Stats struct {
	GamesGenerated   int
	MarkersGenerated int
	GamesExercised   int
	TimelineChecks   int
	SelectionChecks  int
	FilterChecks     int
	AnalysisChecks   int
	Failures         int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
