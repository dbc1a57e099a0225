package runner

import (
	"io"
	"strings"

	"github.com/smarthome-go/quiz/quiz/parser/ast"
)

type TestingLine struct {
	Kind LineKind
	Text string
	// Nil unless written through `WriteStyledLine`.
	Style *ast.Style
}

// TestingExecutor answers prompts from a fixed list and records all output.
type TestingExecutor struct {
	Answers []string
	Lines   []TestingLine
	Prompts int
	// If set, returned by every write.
	WriteErr error
	// If set, returned by every read instead of the next answer.
	ReadErr error
}

func NewTestingExecutor(answers ...string) *TestingExecutor {
	return &TestingExecutor{
		Answers: answers,
		Lines:   make([]TestingLine, 0),
		Prompts: 0,
	}
}

func (self *TestingExecutor) WriteLine(kind LineKind, text string) error {
	if self.WriteErr != nil {
		return self.WriteErr
	}
	self.Lines = append(self.Lines, TestingLine{Kind: kind, Text: text})
	return nil
}

func (self *TestingExecutor) WriteStyledLine(kind LineKind, text string, style ast.Style) error {
	if self.WriteErr != nil {
		return self.WriteErr
	}
	self.Lines = append(self.Lines, TestingLine{Kind: kind, Text: text, Style: &style})
	return nil
}

func (self *TestingExecutor) Prompt(text string) error {
	if self.WriteErr != nil {
		return self.WriteErr
	}
	self.Prompts++
	return nil
}

func (self *TestingExecutor) ReadLine() (string, error) {
	if self.ReadErr != nil {
		return "", self.ReadErr
	}
	if len(self.Answers) == 0 {
		return "", io.EOF
	}
	answer := self.Answers[0]
	self.Answers = self.Answers[1:]
	return answer, nil
}

// Output joins every recorded line, one per row.
func (self *TestingExecutor) Output() string {
	texts := make([]string, 0, len(self.Lines))
	for _, item := range self.Lines {
		texts = append(texts, item.Text)
	}
	return strings.Join(texts, "\n")
}

func (self *TestingExecutor) LinesOf(kind LineKind) []string {
	output := make([]string, 0)
	for _, item := range self.Lines {
		if item.Kind == kind {
			output = append(output, item.Text)
		}
	}
	return output
}
