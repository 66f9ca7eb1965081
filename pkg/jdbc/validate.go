package jdbc

import (
	"strconv"
	"strings"
)

const (
	defaultHost = "localhost"
	maxPort     = 65535
)

// validateHost substitutes localhost for blank host.
func validateHost(host string) string {
	if strings.TrimSpace(host) == "" {
		return defaultHost
	}

	return host
}

// validatePort substitutes default port of the kind for blank port.
func validatePort(port string, kind Kind) (string, error) {
	if strings.TrimSpace(port) == "" {
		return strconv.Itoa(DefaultPort(kind)), nil
	}

	number, err := strconv.Atoi(port)
	if err != nil {
		return "", ErrInvalidPort.New("invalid port number format: %s", port)
	}

	if number <= 0 || number > maxPort {
		return "", ErrInvalidPort.New("invalid port number: %s", port)
	}

	return port, nil
}

func validateName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidName.New("name cannot be empty")
	}

	return name, nil
}

// splitProperties splits trailing segment on ?, & and ; dropping empty tokens.
func splitProperties(segment string) []string {
	properties := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '?' || r == '&' || r == ';'
	})
	if properties == nil {
		return []string{}
	}

	return properties
}
