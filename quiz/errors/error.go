package errors

import "fmt"

type ErrorKind uint8

const (
	// Lexical
	UnrecognizedToken ErrorKind = iota
	UnterminatedString
	InvalidKeyword
	MalformedNumber

	// Syntactic
	UnexpectedEnd
	UnexpectedToken
	ExpectedToken
	EmptyAnswer
	UnterminatedQuestion
	UnterminatedAnswer
	UnterminatedStyle
	UnsupportedOption
)

type Stage uint8

const (
	Lexical Stage = iota
	Syntactic
)

func (self ErrorKind) Stage() Stage {
	switch self {
	case UnrecognizedToken, UnterminatedString, InvalidKeyword, MalformedNumber:
		return Lexical
	case UnexpectedEnd, UnexpectedToken, ExpectedToken, EmptyAnswer,
		UnterminatedQuestion, UnterminatedAnswer, UnterminatedStyle, UnsupportedOption:
		return Syntactic
	default:
		panic("A new error kind was added without updating this code")
	}
}

func (self ErrorKind) String() string {
	switch self {
	case UnrecognizedToken:
		return "unrecognized token"
	case UnterminatedString:
		return "unterminated string"
	case InvalidKeyword:
		return "invalid keyword"
	case MalformedNumber:
		return "malformed number"
	case UnexpectedEnd:
		return "unexpected end of input"
	case UnexpectedToken:
		return "unexpected token"
	case ExpectedToken:
		return "expected token"
	case EmptyAnswer:
		return "empty answer"
	case UnterminatedQuestion:
		return "unterminated question"
	case UnterminatedAnswer:
		return "unterminated answer"
	case UnterminatedStyle:
		return "unterminated style"
	case UnsupportedOption:
		return "unsupported option"
	default:
		panic("A new error kind was added without updating this code")
	}
}

func (self Stage) String() string {
	switch self {
	case Lexical:
		return "tokenization"
	case Syntactic:
		return "parsing"
	default:
		panic("A new stage was added without updating this code")
	}
}

type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Notes   []string  `json:"notes"`
	Span    Span      `json:"span"`
}

func NewError(span Span, message string, kind ErrorKind) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Notes:   make([]string, 0),
		Span:    span,
	}
}

func (self *Error) WithNote(note string) *Error {
	self.Notes = append(self.Notes, note)
	return self
}

// Error renders the single-line diagnostic.
// Its shape depends on how far the span stretches (a span covering a single
// character is shown as a position):
//
//	[file:1:5] message (during parsing)
//	[file:1 5..9] message (during parsing)
//	[file 1:5..3:2] message (during parsing)
func (self *Error) Error() string {
	start, end := self.Span.Start, self.Span.End
	stage := self.Kind.Stage()

	if start.Line == end.Line {
		if end.Column <= start.Column+1 {
			return fmt.Sprintf(
				"[%s:%d:%d] %s (during %s)",
				self.Span.Filename,
				start.Line,
				start.Column,
				self.Message,
				stage,
			)
		}

		return fmt.Sprintf(
			"[%s:%d %d..%d] %s (during %s)",
			self.Span.Filename,
			start.Line,
			start.Column,
			end.Column,
			self.Message,
			stage,
		)
	}

	return fmt.Sprintf(
		"[%s %d:%d..%d:%d] %s (during %s)",
		self.Span.Filename,
		start.Line,
		start.Column,
		end.Line,
		end.Column,
		self.Message,
		stage,
	)
}
