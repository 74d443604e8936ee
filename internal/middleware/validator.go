package middleware

import (
	"fmt"
	"net/url"
	"strings"
)

// Input validation and sanitization utilities

// ValidateRequestID checks the request identifier coming from the main service.
func ValidateRequestID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("request_id must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateBaseURL validates the callback base URL from configuration.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("callback base URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %s", rawURL)
	}

	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
