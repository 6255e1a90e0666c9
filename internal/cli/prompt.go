package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/skillsmd/skillscli/internal/finder"
	"github.com/skillsmd/skillscli/internal/installer"
)

// consoleSelector resolves an ambiguous skill name by asking the user to
// pick from a numbered list.
type consoleSelector struct {
	in  io.Reader
	out io.Writer
}

var _ installer.Selector = (*consoleSelector)(nil)

func (s *consoleSelector) SelectOne(matches []finder.Match) (finder.Match, error) {
	fmt.Fprintln(s.out, "Multiple skills found. Please select one:")
	for i, m := range matches {
		fmt.Fprintf(s.out, "  %d. %s (%s)\n", i+1, m.Name, m.Market)
	}
	fmt.Fprintf(s.out, "\nEnter your choice (1-%d): ", len(matches))

	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && line == "" {
		return finder.Match{}, fmt.Errorf("reading selection: %w", err)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return finder.Match{}, fmt.Errorf("invalid input %q: enter a number", strings.TrimSpace(line))
	}
	if choice < 1 || choice > len(matches) {
		return finder.Match{}, fmt.Errorf("invalid choice %d: must be between 1 and %d", choice, len(matches))
	}
	return matches[choice-1], nil
}
