package summary

import (
	"errors"
	"fmt"

	"linksummary/internal/loader"
)

// UserMessage turns a Summarize error into the text shown to the user.
func UserMessage(err error, provider string) string {
	if err == nil {
		return ""
	}

	var tooShort *ContentTooShortError

	switch {
	case errors.Is(err, ErrMissingAPIKey):
		if provider == "" {
			return "Please enter your API key"
		}
		return fmt.Sprintf("Please enter your %s API key", provider)
	case errors.Is(err, ErrMissingURL):
		return "Please enter a URL"
	case errors.Is(err, ErrInvalidURL):
		return "Please enter a valid URL"
	case errors.As(err, &tooShort):
		return fmt.Sprintf("No meaningful content (only %d chars). Try a text-heavy page.", tooShort.Chars)
	case errors.Is(err, loader.ErrAllLoadersFailed):
		return "All loaders failed - no readable content found"
	default:
		return err.Error()
	}
}

// IsInputError reports whether err was caused by the request itself rather
// than by loading or summarizing.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingAPIKey) ||
		errors.Is(err, ErrMissingURL) ||
		errors.Is(err, ErrInvalidURL)
}
