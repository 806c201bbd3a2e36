package handler

import "testing"

func TestSanitizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/complaints/6f1e9c2a-4b3d-4e5f-8a9b-0c1d2e3f4a5b", "/api/complaints/:id"},
		{"/api/complaints/6f1e9c2a-4b3d-4e5f-8a9b-0c1d2e3f4a5b/stage/2", "/api/complaints/:id/stage/:stageOrder"},
		{"/api/complaints/6f1e9c2a-4b3d-4e5f-8a9b-0c1d2e3f4a5b/timeline", "/api/complaints/:id/timeline"},
		{"/api/complaints/submit", "/api/complaints/submit"},
		{"/api/complaints/vote", "/api/complaints/vote"},
		{"/api/complaints/calculate-priority", "/api/complaints/calculate-priority"},
		{"/api/chat/abc-123", "/api/chat/:sessionId"},
		{"/api/guest-votes", "/api/guest-votes"},
		{"/health/ready", "/health/ready"},
	}

	for _, tt := range tests {
		if got := sanitizeEndpoint(tt.in); got != tt.want {
			t.Errorf("sanitizeEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
