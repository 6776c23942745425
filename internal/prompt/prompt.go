package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/illarion/kookie/internal/crypto"
)

// MinPasswordLength is the shortest master password NewPassword accepts.
const MinPasswordLength = 8

var (
	// ErrNoInput is returned when input ends before an answer is given.
	ErrNoInput = errors.New("no input")
)

var (
	label = color.New(color.FgCyan)
	hint  = color.New(color.Faint)
	fail  = color.New(color.FgRed)
)

// Prompter asks questions on out and reads the answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// New creates a Prompter. Hidden input is used when in is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// Password reads a password without echo.
func (p *Prompter) Password(prompt string) (string, error) {
	label.Fprint(p.out, prompt+" ")

	if p.fd >= 0 {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		defer crypto.ClearBytes(b)
		return string(b), nil
	}

	line, err := p.readLine()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return line, nil
}

// NewPassword reads a password twice and insists they match. Passwords
// shorter than MinPasswordLength are refused and asked for again.
func (p *Prompter) NewPassword(prompt string) (string, error) {
	for {
		password, err := p.Password(prompt)
		if err != nil {
			return "", err
		}
		if len(password) < MinPasswordLength {
			fail.Fprintf(p.out, "Password must be at least %d characters.\n", MinPasswordLength)
			continue
		}

		confirm, err := p.Password("Confirm password:")
		if err != nil {
			return "", err
		}
		if !crypto.ConstantTimeCompare([]byte(password), []byte(confirm)) {
			fail.Fprintln(p.out, "Passwords do not match. Try again.")
			continue
		}
		return password, nil
	}
}

// Text reads one line, trimmed.
func (p *Prompter) Text(prompt string) (string, error) {
	label.Fprint(p.out, prompt+" ")
	return p.readLine()
}

// Optional reads one line and returns nil when it is empty.
func (p *Prompter) Optional(prompt string) (*string, error) {
	s, err := p.Text(prompt)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// Confirm asks a yes/no question. An empty answer selects def.
func (p *Prompter) Confirm(prompt string, def bool) (bool, error) {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	label.Fprint(p.out, prompt+" ")
	hint.Fprint(p.out, suffix+" ")

	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Number reads a non-negative integer. When def is not nil an empty answer
// selects it; invalid answers are asked for again.
func (p *Prompter) Number(prompt string, def *uint32) (uint32, error) {
	for {
		label.Fprint(p.out, prompt)
		if def != nil {
			hint.Fprintf(p.out, " [%d]", *def)
		}
		fmt.Fprint(p.out, ": ")

		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if answer == "" {
			if def != nil {
				return *def, nil
			}
			fail.Fprintln(p.out, "Please enter a number.")
			continue
		}

		n, err := strconv.ParseUint(answer, 10, 32)
		if err != nil {
			fail.Fprintln(p.out, "Invalid number. Try again.")
			continue
		}
		return uint32(n), nil
	}
}

// readLine returns the next line without its terminator. A final line
// without a newline is still returned; ErrNoInput means nothing was left.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
