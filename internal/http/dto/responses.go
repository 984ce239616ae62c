package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type RunCreatedResponse struct {
	RunID string `json:"run_id"`
}

type ImageResponse struct {
	Image string `json:"image"` // data URI
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}
