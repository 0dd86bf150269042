package models

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is immutable once loaded; the correct option and explanation are
// stripped before it is sent to the quiz screen in exam mode.
type Question struct {
	ID              string   `json:"id"`
	Statement       string   `json:"statement"`
	Tags            []string `json:"tags"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correct"`
	Explanation     string   `json:"explanation,omitempty"`
	SchemaVersion   string   `json:"version"`
}

// QuestionView is the client-facing shape of a question.
type QuestionView struct {
	ID          string   `json:"id"`
	Statement   string   `json:"statement"`
	Tags        []string `json:"tags"`
	Options     []Option `json:"options"`
	Explanation string   `json:"explanation,omitempty"`
	CorrectID   string   `json:"correct,omitempty"`
}

type QuestionFile struct {
	Questions []Question `json:"questions"`
}
