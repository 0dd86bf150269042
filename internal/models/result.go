package models

type TagStats struct {
	Correct int   `json:"correct"`
	Total   int   `json:"total"`
	TimeMs  int64 `json:"time_ms"`
}

type WeakTag struct {
	Tag         string `json:"tag"`
	AccuracyPct int    `json:"accuracy_pct"`
}

// QuestionReview backs the per-question review list on the results screen.
type QuestionReview struct {
	QuestionID       string   `json:"question_id"`
	Statement        string   `json:"statement"`
	Tags             []string `json:"tags"`
	Options          []Option `json:"options"`
	SelectedOptionID string   `json:"selected_option_id,omitempty"`
	CorrectOptionID  string   `json:"correct_option_id"`
	Answered         bool     `json:"answered"`
	Correct          bool     `json:"correct"`
	ConfidencePct    int      `json:"confidence_pct"`
	Marked           bool     `json:"marked"`
	TimeMs           int64    `json:"time_ms"`
	Explanation      string   `json:"explanation,omitempty"`
}

// Result is derived from a finished session and never stored.
type Result struct {
	CorrectCount     int                 `json:"correct_count"`
	TotalAnswered    int                 `json:"total_answered"`
	TotalQuestions   int                 `json:"total_questions"`
	AccuracyPct      int                 `json:"accuracy_pct"`
	BrierScore       float64             `json:"brier_score"`
	AvgConfidencePct int                 `json:"avg_confidence_pct"`
	TotalTimeSec     int64               `json:"total_time_sec"`
	ByTag            map[string]TagStats `json:"by_tag"`
	WeakTags         []WeakTag           `json:"weak_tags"`
	Review           []QuestionReview    `json:"review"`
}

// ExportSnapshot is the downloadable results document.
type ExportSnapshot struct {
	Date         string              `json:"date"`
	Score        ExportScore         `json:"score"`
	BrierScore   float64             `json:"brierScore"`
	Mode         string              `json:"mode"`
	TimeSpentSec int64               `json:"timeSpentSec"`
	Answers      map[string]string   `json:"answers"`
	Confidence   map[string]int      `json:"confidence"`
	ByTag        map[string]TagStats `json:"byTag"`
}

type ExportScore struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}
