package api

// RecommendResponse represents the response payload for a processed upload
type RecommendResponse struct {
	Success          bool   `json:"success"`
	RequestID        string `json:"request_id"`
	TranscribedQuery string `json:"transcribed_query"`
	Recommendation   string `json:"recommendation"`
	AudioDownloadURL string `json:"audio_download_url"`
	AudioFilename    string `json:"audio_filename"`
}

// HealthResponse represents the liveness payload
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

// InfoResponse describes the service
type InfoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Detail string `json:"detail"`
}
