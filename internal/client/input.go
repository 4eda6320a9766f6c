package client

import (
	"bufio"
	"os"
	"strings"
)

// InputHandler reads line-oriented user input from stdin
type InputHandler struct {
	reader  *bufio.Reader
	display *Display
}

// NewInputHandler creates an input handler bound to the display
func NewInputHandler(display *Display) *InputHandler {
	return &InputHandler{
		reader:  bufio.NewReader(os.Stdin),
		display: display,
	}
}

// GetLine reads one trimmed line after printing a prompt
func (ih *InputHandler) GetLine(prompt string) string {
	if prompt != "" {
		ih.display.PrintInfo(prompt)
	}
	line, err := ih.reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// GetStringInput reads a line until its length is within [min, max]
func (ih *InputHandler) GetStringInput(prompt string, min, max int) string {
	for {
		value := ih.GetLine(prompt)
		if len(value) >= min && len(value) <= max {
			return value
		}
		ih.display.PrintWarning("Input must be between the allowed length, try again")
	}
}

// GetMenuChoice reads a numeric menu selection within [min, max]
func (ih *InputHandler) GetMenuChoice(min, max int) int {
	for {
		value := ih.GetLine("Enter choice:")
		if len(value) == 1 && value[0] >= '0'+byte(min) && value[0] <= '0'+byte(max) {
			return int(value[0] - '0')
		}
		ih.display.PrintWarning("Invalid choice, try again")
	}
}
