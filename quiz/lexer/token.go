package lexer

import (
	"github.com/smarthome-go/quiz/quiz/errors"
)

type Token struct {
	Kind  TokenKind
	Value string
	// Only meaningful if `Kind` is `Number`.
	Number int64
	Span   errors.Span
}

type TokenKind uint8

const (
	Unknown TokenKind = iota
	EOF

	LBrace // {
	RBrace // }
	Comma  // ,

	Title    // title
	By       // by
	Pass     // pass
	Question // question
	Answer   // answer
	Value    // value
	Style    // style
	Show     // show
	Color    // fg_red, bg_br_black, ...

	String // "foo" (token includes quotes whilst content excludes them)
	Number // -42
)

var keywords = map[string]TokenKind{
	"title":    Title,
	"by":       By,
	"pass":     Pass,
	"question": Question,
	"answer":   Answer,
	"value":    Value,
	"style":    Style,
	"show":     Show,
}

var colorHues = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func init() {
	for _, layer := range []string{"fg", "bg"} {
		for _, hue := range colorHues {
			keywords[layer+"_"+hue] = Color
			keywords[layer+"_br_"+hue] = Color
		}
	}
}

// Keywords returns every reserved word in declaration order.
func Keywords() []string {
	words := []string{"title", "by", "pass", "question", "answer", "value", "style", "show"}
	for _, layer := range []string{"fg", "bg"} {
		for _, hue := range colorHues {
			words = append(words, layer+"_"+hue)
		}
		for _, hue := range colorHues {
			words = append(words, layer+"_br_"+hue)
		}
	}
	return words
}

func newToken(kind TokenKind, value string, span errors.Span) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Span:  span,
	}
}

func unknownToken(location errors.Location) Token {
	return newToken(Unknown, "", errors.Span{Start: location, End: location})
}

func (self TokenKind) IsKeyword() bool {
	switch self {
	case Title, By, Pass, Question, Answer, Value, Style, Show, Color:
		return true
	default:
		return false
	}
}

func (self TokenKind) String() string {
	switch self {
	case Unknown:
		return "unknown"
	case EOF:
		return "EOF"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case Comma:
		return ","
	case Title:
		return "title"
	case By:
		return "by"
	case Pass:
		return "pass"
	case Question:
		return "question"
	case Answer:
		return "answer"
	case Value:
		return "value"
	case Style:
		return "style"
	case Show:
		return "show"
	case Color:
		return "color"
	case String:
		return "string"
	case Number:
		return "number"
	default:
		panic("A new token kind was added without updating this code")
	}
}
