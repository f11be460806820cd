package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// prompter asks for values that were not passed as flags. It reads lines
// from the command's input so scripts can pipe answers in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// fill prompts for *v when it is empty.
func (p *prompter) fill(v *string, label string) error {
	if *v != "" {
		return nil
	}
	s, err := p.ask(label)
	if err != nil {
		return err
	}
	*v = s
	return nil
}

// password prompts twice and requires both entries to match.
func (p *prompter) password(v *string) error {
	if *v != "" {
		return nil
	}
	first, err := p.ask("Password")
	if err != nil {
		return err
	}
	again, err := p.ask("Repeat for confirmation")
	if err != nil {
		return err
	}
	if first != again {
		return errors.New("passwords do not match")
	}
	*v = first
	return nil
}
