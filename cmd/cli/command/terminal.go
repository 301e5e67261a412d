package command

// terminal.go implements the interactive surfaces the synchronizers need
// on top of stdin/stdout. An empty answer cancels a prompt.

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// terminalPrompter reads answers line by line from stdin.
type terminalPrompter struct {
	in *bufio.Reader
}

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(os.Stdin)}
}

func (t *terminalPrompter) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (t *terminalPrompter) Prompt(title, message, initial string) (string, bool) {
	if initial != "" {
		fmt.Printf("%s - %s [%s]: ", title, message, initial)
	} else {
		fmt.Printf("%s - %s: ", title, message)
	}
	value, ok := t.readLine()
	if !ok {
		return "", false
	}
	if value == "" {
		// Keep the suggested value when the user just hits enter.
		if initial != "" {
			return initial, true
		}
		return "", false
	}
	return value, true
}

func (t *terminalPrompter) Confirm(title, message string) bool {
	fmt.Printf("%s - %s [y/N]: ", title, message)
	answer, ok := t.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (t *terminalPrompter) Alert(title, message string) {
	fmt.Printf("[%s] %s\n", title, message)
}

func (t *terminalPrompter) Toast(message string) {
	fmt.Println(message)
}

func (t *terminalPrompter) ChooseOption(title string, options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	fmt.Println(title)
	for i, option := range options {
		fmt.Printf("  %d) %s\n", i+1, option)
	}
	fmt.Print("Choose a number (enter to cancel): ")
	answer, ok := t.readLine()
	if !ok || answer == "" {
		return "", false
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return "", false
	}
	return options[n-1], true
}

// terminalPicker asks for a local file path instead of opening a dialog.
type terminalPicker struct {
	prompter *terminalPrompter
}

func (t *terminalPicker) PickImage() (string, bool) {
	path, ok := t.prompter.Prompt("Pick Image", "Path to an image file", "")
	if !ok {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("File not found: %s\n", path)
		return "", false
	}
	return path, true
}
