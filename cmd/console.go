package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/smarthome-go/quiz/quiz/parser/ast"
	"github.com/smarthome-go/quiz/quiz/runner"
)

type palette map[runner.LineKind]lipgloss.Style

func newPalette(output io.Writer, color bool) palette {
	renderer := lipgloss.NewRenderer(output)
	if color {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	// answers are shown verbatim, so tabs must survive rendering
	base := renderer.NewStyle().TabWidth(lipgloss.NoTabConversion)
	grey := lipgloss.Color("8")

	return palette{
		runner.HeaderLine:    base.Bold(true).Foreground(lipgloss.Color("3")),
		runner.AuthorLine:    base.Foreground(grey),
		runner.ThresholdLine: base.Foreground(grey),
		runner.QuestionLine:  base.Bold(true).Foreground(lipgloss.Color("14")),
		runner.CorrectLine:   base.Foreground(lipgloss.Color("2")),
		runner.WrongLine:     base.Foreground(lipgloss.Color("1")),
		runner.SummaryLine:   base.Foreground(lipgloss.Color("3")),
		runner.VerdictLine:   base.Bold(true),
	}
}

// Lines of these kinds are followed by an empty line.
var spacedLines = map[runner.LineKind]bool{
	runner.ThresholdLine: true,
	runner.CorrectLine:   true,
	runner.WrongLine:     true,
}

// consoleExecutor plays a session on a terminal-like pair of streams.
type consoleExecutor struct {
	input   *bufio.Reader
	output  *bufio.Writer
	palette palette
}

func newConsoleExecutor(input io.Reader, output io.Writer, color bool) *consoleExecutor {
	return &consoleExecutor{
		input:   bufio.NewReader(input),
		output:  bufio.NewWriter(output),
		palette: newPalette(output, color),
	}
}

func (self *consoleExecutor) style(kind runner.LineKind) lipgloss.Style {
	style, found := self.palette[kind]
	if !found {
		panic(fmt.Sprintf("no style for line kind `%s`", kind))
	}
	return style
}

func (self *consoleExecutor) WriteLine(kind runner.LineKind, text string) error {
	return self.write(kind, self.style(kind), text)
}

// WriteStyledLine lets the colors of a quiz author replace the default ones.
func (self *consoleExecutor) WriteStyledLine(kind runner.LineKind, text string, style ast.Style) error {
	rendered := self.style(kind)

	if foreground, ok := style.Foreground(); ok {
		rendered = rendered.Foreground(ansiColor(foreground))
	}
	if background, ok := style.Background(); ok {
		rendered = rendered.Background(ansiColor(background))
	}

	return self.write(kind, rendered, text)
}

func ansiColor(color ast.Color) lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(int(color.ANSI())))
}

func (self *consoleExecutor) write(kind runner.LineKind, style lipgloss.Style, text string) error {
	// lipgloss pads every line of a block to the same width
	lines := strings.Split(text, "\n")
	for idx, line := range lines {
		lines[idx] = style.Render(line)
	}

	if _, err := fmt.Fprintln(self.output, strings.Join(lines, "\n")); err != nil {
		return err
	}

	if spacedLines[kind] {
		if _, err := fmt.Fprintln(self.output); err != nil {
			return err
		}
	}

	// the session may end right after this line
	if kind == runner.VerdictLine {
		return self.output.Flush()
	}

	return nil
}

func (self *consoleExecutor) Prompt(text string) error {
	if _, err := self.output.WriteString(self.style(runner.QuestionLine).UnsetBold().Render(text)); err != nil {
		return err
	}
	return self.output.Flush()
}

func (self *consoleExecutor) ReadLine() (string, error) {
	line, err := self.input.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		return line, nil
	}
	return line, err
}
