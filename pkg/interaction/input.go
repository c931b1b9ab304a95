// pkg/interaction/input.go

package interaction

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptInput displays a prompt and reads user input, returning the default
// when the operator just presses enter.
func PromptInput(prompt, defaultVal string) string {
	reader := bufio.NewReader(os.Stdin)
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Printf("%s: ", prompt)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// PromptRequired keeps asking until a non-empty string is entered.
func PromptRequired(label string) string {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s: ", label)
		text, _ := reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if text != "" {
			return text
		}
		fmt.Println("Input cannot be empty.")
	}
}

// PromptYesNo asks a yes/no question; an empty answer takes the default.
func PromptYesNo(prompt string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s %s: ", prompt, suffix)
		text, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "":
			return defaultYes
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Println("Please answer y or n.")
	}
}

// PromptSelect displays numbered options and returns the selected value.
func PromptSelect(prompt string, options []string) string {
	fmt.Println(prompt)
	for i, option := range options {
		fmt.Printf("  %d) %s\n", i+1, option)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter choice: ")
		text, _ := reader.ReadString('\n')
		text = strings.TrimSpace(text)
		for i, option := range options {
			if text == fmt.Sprintf("%d", i+1) || strings.EqualFold(text, option) {
				return option
			}
		}
		fmt.Println("Invalid selection. Please try again.")
	}
}
