package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// Prompter asks the user for input
type Prompter interface {
	// Interactive reports whether prompts can be shown at all
	Interactive() bool
	Password(label string) (string, error)
	Confirm(label string) (bool, error)
	Select(label string, items []string) (int, error)
}

// TerminalPrompter prompts on the controlling terminal
type TerminalPrompter struct {
	out io.Writer
}

// NewTerminalPrompter creates a prompter that echoes labels to out
func NewTerminalPrompter(out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{out: out}
}

func (p *TerminalPrompter) Interactive() bool {
	return isInteractive()
}

func (p *TerminalPrompter) Password(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

func (p *TerminalPrompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

func (p *TerminalPrompter) Select(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "{{ . | green }}",
		},
	}
	index, _, err := prompt.Run()
	if err != nil {
		return -1, fmt.Errorf("selection cancelled: %w", err)
	}
	return index, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// readPassword returns the password from the prompter, or an error naming
// the flag and variable to use in non-interactive mode
func readPassword(p Prompter, label string) (string, error) {
	if !p.Interactive() {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or STOREFRONT_PASSWORD env var)")
	}
	return p.Password(label)
}

// confirm asks for confirmation unless skip is set
func confirm(p Prompter, skip bool, label string) error {
	if skip {
		return nil
	}
	if !p.Interactive() {
		return fmt.Errorf("confirmation required in non-interactive mode (use --yes)")
	}
	ok, err := p.Confirm(label)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	return nil
}

var errCancelled = errors.New("cancelled")
