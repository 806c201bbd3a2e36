package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxTitleLen       = 200 // complaints.title VARCHAR(200)
	MaxDescriptionLen = 5000
	MaxDeviceIDLen    = 128
	MaxUserIDLen      = 64
	MaxNotesLen       = 1000
)

var (
	// uuidRe matches canonical lowercase UUIDs (complaint ids).
	uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// voterIDRe matches account ids and derived guest ids.
	voterIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateComplaintID checks that an id is a well-formed UUID.
func ValidateComplaintID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "complaintId is required"
	}
	if !uuidRe.MatchString(id) {
		return "", "complaintId must be a UUID"
	}
	return id, ""
}

// ValidateUserID checks that a voter/user id is well-formed.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "userId is required"
	}
	if len(id) > MaxUserIDLen {
		return "", "userId must be at most 64 characters"
	}
	if !voterIDRe.MatchString(id) {
		return "", "userId contains invalid characters"
	}
	return id, ""
}

// ValidateTitle checks the complaint title.
func ValidateTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "title is required"
	}
	if len(title) > MaxTitleLen {
		return "", "title must be at most 200 characters"
	}
	return title, ""
}

// ValidateDescription checks the complaint description.
func ValidateDescription(desc string) (string, string) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", "description is required"
	}
	if len(desc) > MaxDescriptionLen {
		return "", "description must be at most 5000 characters"
	}
	return desc, ""
}

// ValidateCoordinates checks optional coordinates when present.
func ValidateCoordinates(lat, lon *float64) string {
	if lat == nil && lon == nil {
		return ""
	}
	if lat == nil || lon == nil {
		return "latitude and longitude must both be provided"
	}
	if *lat < -90 || *lat > 90 {
		return "latitude must be between -90 and 90"
	}
	if *lon < -180 || *lon > 180 {
		return "longitude must be between -180 and 180"
	}
	return ""
}

// ValidateDeviceID trims and bounds a client device identifier. An empty
// result is legal (the vote becomes a one-shot anonymous vote).
func ValidateDeviceID(deviceID string) string {
	deviceID = strings.TrimSpace(deviceID)
	if len(deviceID) > MaxDeviceIDLen {
		deviceID = deviceID[:MaxDeviceIDLen]
	}
	return deviceID
}

// ValidateNotes bounds free-text notes on stage updates.
func ValidateNotes(notes string) string {
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLen {
		notes = notes[:MaxNotesLen]
	}
	return notes
}
