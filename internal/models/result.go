package models

import "time"

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind"`
	Detail    string `json:"detail"`
}

type HealthResponse struct {
	Status              string    `json:"status"`
	AnalyzerInitialized bool      `json:"analyzer_initialized"`
	AgentInitialized    bool      `json:"agent_initialized"`
	Time                time.Time `json:"time"`
}
