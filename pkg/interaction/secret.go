// pkg/interaction/secret.go

package interaction

import (
	"fmt"
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// PromptSecret asks the user for a hidden input (no terminal echo).
func PromptSecret(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		zap.L().Error("Cannot prompt for secret input: not a TTY")
		return "", cerr.New("secret prompt failed: no terminal available")
	}

	fmt.Print(prompt + ": ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		zap.L().Error("Failed to read secret input", zap.Error(err))
		return "", err
	}
	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		zap.L().Warn("No input received for secret", zap.String("prompt", prompt))
	}
	return secret, nil
}

// PromptSecretConfirmed asks for a secret twice and rejects mismatches;
// the caller decides whether to re-prompt.
func PromptSecretConfirmed(prompt string) (string, error) {
	first, err := PromptSecret(prompt)
	if err != nil {
		return "", err
	}
	second, err := PromptSecret(prompt + " (confirm)")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", cerr.New("entries do not match")
	}
	return first, nil
}
