package runner

import "github.com/smarthome-go/quiz/quiz/parser/ast"

// LineKind tells an executor what a line means so it can decorate it.
type LineKind uint8

const (
	HeaderLine LineKind = iota
	AuthorLine
	ThresholdLine
	QuestionLine
	CorrectLine
	WrongLine
	SummaryLine
	VerdictLine
)

func (self LineKind) String() string {
	switch self {
	case HeaderLine:
		return "header"
	case AuthorLine:
		return "author"
	case ThresholdLine:
		return "threshold"
	case QuestionLine:
		return "question"
	case CorrectLine:
		return "correct"
	case WrongLine:
		return "wrong"
	case SummaryLine:
		return "summary"
	case VerdictLine:
		return "verdict"
	default:
		panic("A new line kind was added without updating this code")
	}
}

type Executor interface {
	// Writes one line of output, the executor appends the line break.
	WriteLine(kind LineKind, text string) error
	// Writes `text` without a line break and makes sure it is visible before input is read.
	Prompt(text string) error
	// Blocks until one line of input is available.
	// Returns `io.EOF` if the input is exhausted.
	ReadLine() (string, error)
}

// StyledExecutor can additionally decorate lines with the colors of a quiz author.
// Executors without this method receive styled lines through `WriteLine`.
type StyledExecutor interface {
	Executor
	WriteStyledLine(kind LineKind, text string, style ast.Style) error
}
