package main

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// systemClipboard backs editor copy and paste with the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return s, nil
}

func (systemClipboard) WriteText(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
