package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var ticketRegex = regexp.MustCompile(`^([A-Z][A-Z0-9]*)-(\d+)$`)

// NormalizeTicket normalizes issue tracker IDs to uppercase ABC-123 form
// Accepts formats like:
// - "APP-123", "app-123" -> "APP-123"
// - " web2-7 " -> "WEB2-7"
// Returns error if format is invalid
func NormalizeTicket(ticket string) (string, error) {
	if ticket == "" {
		return "", nil
	}

	ticket = strings.ToUpper(strings.TrimSpace(ticket))
	if !ticketRegex.MatchString(ticket) {
		return "", fmt.Errorf("invalid ticket format %q. Use: ABC-123 (letters-numbers)", ticket)
	}
	return ticket, nil
}

// IsValidTicket checks if a string matches the ticket ID format
func IsValidTicket(ticket string) bool {
	if ticket == "" {
		return true // Empty is valid (optional field)
	}
	return ticketRegex.MatchString(strings.ToUpper(strings.TrimSpace(ticket)))
}
