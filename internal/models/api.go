package models

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type StartSessionRequest struct {
	Mode string `json:"mode"`
}

type AnswerRequest struct {
	OptionID string `json:"option_id"`
}

type ConfidenceRequest struct {
	Value int `json:"value"`
}

type StrikeRequest struct {
	OptionID string `json:"option_id"`
}

type NavigateRequest struct {
	Delta int `json:"delta"`
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}
