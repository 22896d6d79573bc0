package main

import (
	"fmt"
	"io"
	"strings"
)

// resolveInput returns the pattern to operate on: the first positional
// argument if present, otherwise the trimmed contents of stdin.
func resolveInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		trimmed := strings.TrimSpace(string(data))
		if trimmed == "" {
			return "", fmt.Errorf("no pattern provided")
		}
		return trimmed, nil
	}
	return "", fmt.Errorf("no pattern provided")
}
