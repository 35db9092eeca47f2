package summary

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrMissingAPIKey = errors.New("API key is empty")
	ErrMissingURL    = errors.New("URL is empty")
	ErrInvalidURL    = errors.New("URL is invalid")
)

const maxPort = 65535

// ValidateInput checks the API key and URL in the order the form reports
// them and returns the trimmed URL. It never touches the network.
func ValidateInput(rawURL string, apiKey string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	return ValidateURL(rawURL)
}

// ValidateURL accepts absolute http(s) URLs with a dotted host name, an IP
// address or localhost.
func ValidateURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", ErrMissingURL
	}

	if strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 {
		return "", ErrInvalidURL
	}

	u, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return "", errors.Join(ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}

	if !validHost(u.Hostname()) || !validPort(u.Port()) {
		return "", ErrInvalidURL
	}

	return trimmed, nil
}

func validPort(port string) bool {
	if port == "" {
		return true
	}

	n, err := strconv.Atoi(port)

	return err == nil && n > 0 && n <= maxPort
}

func validHost(host string) bool {
	if host == "" {
		return false
	}

	if net.ParseIP(host) != nil || strings.EqualFold(host, "localhost") {
		return true
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if label == "" || len(label) > 63 || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}

	tld := labels[len(labels)-1]
	for _, r := range tld {
		if r >= '0' && r <= '9' {
			return false
		}
	}

	return true
}
