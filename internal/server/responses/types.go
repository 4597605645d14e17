// Package responses defines the JSON bodies written by fsblog's auxiliary
// HTTP endpoints.
package responses

import "time"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Uptime    float64        `json:"uptime"`
	Formats   []string       `json:"formats"`
	Entities  map[string]int `json:"entities,omitempty"`
	Error     string         `json:"error,omitempty"`
}
