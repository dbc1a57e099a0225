package ast

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/quiz/quiz/errors"
)

//
// Metaline
//

type Metaline struct {
	// The metaline is optional: if this is `false`, there was no `title` token.
	Defined bool        `json:"-" yaml:"-"`
	Title   string      `json:"title" yaml:"title"`
	By      string      `json:"by" yaml:"by"`
	Pass    int64       `json:"pass" yaml:"pass"`
	Range   errors.Span `json:"-" yaml:"-"`
}

func (self Metaline) Span() errors.Span { return self.Range }
func (self Metaline) String() string {
	return fmt.Sprintf("title %s by %s pass %d", quote(self.Title), quote(self.By), self.Pass)
}

//
// Answer
//

type AnswerOption struct {
	Text string `json:"text" yaml:"text"`
	// Set by a trailing `pass` marker, only accepted with the answer options capability.
	Tagged bool        `json:"tagged,omitempty" yaml:"tagged,omitempty"`
	Range  errors.Span `json:"-" yaml:"-"`
}

func (self AnswerOption) Span() errors.Span { return self.Range }
func (self AnswerOption) String() string {
	if self.Tagged {
		return fmt.Sprintf("%s pass", quote(self.Text))
	}
	return quote(self.Text)
}

// Answer is the acceptance set of a question; order is declaration order.
type Answer struct {
	Options []AnswerOption `json:"options" yaml:"options"`
	// Set by a `show` marker, only accepted with the styles capability.
	Show bool `json:"show,omitempty" yaml:"show,omitempty"`
}

// Contains compares `given` with every option after trimming surrounding whitespace.
// Comparison is exact and case-sensitive.
func (self Answer) Contains(given string) bool {
	given = strings.TrimSpace(given)
	for _, option := range self.Options {
		if option.Text == given {
			return true
		}
	}
	return false
}

func (self Answer) Strings() []string {
	output := make([]string, 0, len(self.Options))
	for _, option := range self.Options {
		output = append(output, option.Text)
	}
	return output
}

func (self Answer) String() string {
	options := make([]string, 0, len(self.Options)+1)
	if self.Show {
		options = append(options, "show")
	}
	for _, option := range self.Options {
		options = append(options, option.String())
	}
	return fmt.Sprintf("answer {\n    %s,\n}", strings.Join(options, ",\n    "))
}

//
// Style
//

type ColorLayer uint8

const (
	Foreground ColorLayer = iota
	Background
)

func (self ColorLayer) String() string {
	switch self {
	case Foreground:
		return "fg"
	case Background:
		return "bg"
	default:
		panic("A new color layer was added without updating this code")
	}
}

// Hue values follow the ANSI color order.
type Hue uint8

const (
	Black Hue = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

func (self Hue) String() string {
	switch self {
	case Black:
		return "black"
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	case Magenta:
		return "magenta"
	case Cyan:
		return "cyan"
	case White:
		return "white"
	default:
		panic("A new hue was added without updating this code")
	}
}

type Color struct {
	Layer  ColorLayer
	Bright bool
	Hue    Hue
}

// ParseColor accepts keywords like `fg_red` or `bg_br_white`.
func ParseColor(keyword string) (Color, bool) {
	for layer := Foreground; layer <= Background; layer++ {
		for _, bright := range []bool{false, true} {
			for hue := Black; hue <= White; hue++ {
				color := Color{Layer: layer, Bright: bright, Hue: hue}
				if color.String() == keyword {
					return color, true
				}
			}
		}
	}
	return Color{}, false
}

// ANSI returns the index of this color in the 16 color palette.
func (self Color) ANSI() uint8 {
	if self.Bright {
		return uint8(self.Hue) + 8
	}
	return uint8(self.Hue)
}

func (self Color) String() string {
	if self.Bright {
		return fmt.Sprintf("%s_br_%s", self.Layer, self.Hue)
	}
	return fmt.Sprintf("%s_%s", self.Layer, self.Hue)
}

func (self Color) MarshalText() ([]byte, error) {
	return []byte(self.String()), nil
}

func (self *Color) UnmarshalText(text []byte) error {
	color, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("unknown color `%s`", text)
	}
	*self = color
	return nil
}

// Style holds the colors a quiz author picked for one question.
type Style struct {
	Colors []Color     `json:"colors" yaml:"colors"`
	Range  errors.Span `json:"-" yaml:"-"`
}

// Foreground returns the last foreground color, later colors override earlier ones.
func (self Style) Foreground() (Color, bool) {
	return self.last(Foreground)
}

func (self Style) Background() (Color, bool) {
	return self.last(Background)
}

func (self Style) last(layer ColorLayer) (Color, bool) {
	for idx := len(self.Colors) - 1; idx >= 0; idx-- {
		if self.Colors[idx].Layer == layer {
			return self.Colors[idx], true
		}
	}
	return Color{}, false
}

func (self Style) Span() errors.Span { return self.Range }
func (self Style) String() string {
	if len(self.Colors) == 0 {
		return "style { }"
	}

	colors := make([]string, 0, len(self.Colors))
	for _, color := range self.Colors {
		colors = append(colors, color.String())
	}
	return fmt.Sprintf("style { %s }", strings.Join(colors, ", "))
}

//
// Question
//

type Question struct {
	Text   string `json:"text" yaml:"text"`
	Answer Answer `json:"answer" yaml:"answer"`
	Value  int64  `json:"value" yaml:"value"`
	// Only present with the styles capability.
	Style *Style      `json:"style,omitempty" yaml:"style,omitempty"`
	Range errors.Span `json:"-" yaml:"-"`
}

// RevealsAnswer tells whether a wrong answer is followed by the acceptance set.
// Unstyled questions always reveal it, styled ones only with a `show` marker.
func (self Question) RevealsAnswer() bool {
	return self.Style == nil || self.Answer.Show
}

func (self Question) Span() errors.Span { return self.Range }
func (self Question) String() string {
	body := fmt.Sprintf("value %d", self.Value)
	if len(self.Answer.Options) > 0 {
		body = fmt.Sprintf("%s\n%s", self.Answer, body)
	}
	if self.Style != nil {
		body = fmt.Sprintf("%s\n%s", self.Style, body)
	}

	return fmt.Sprintf("question %s {\n    %s\n}", quote(self.Text), strings.ReplaceAll(body, "\n", "\n    "))
}

//
// Quiz
//

type Quiz struct {
	Metaline  Metaline   `json:"metaline" yaml:"metaline"`
	Questions []Question `json:"questions" yaml:"questions"`
	Filename  string     `json:"filename" yaml:"filename"`
}

// Possible is the sum of all question values.
func (self Quiz) Possible() int64 {
	var total int64
	for _, question := range self.Questions {
		total += question.Value
	}
	return total
}

// String renders the quiz as source text which parses back into an equal quiz.
func (self Quiz) String() string {
	parts := make([]string, 0, len(self.Questions)+1)

	if self.Metaline.Defined {
		parts = append(parts, self.Metaline.String())
	}

	for _, question := range self.Questions {
		parts = append(parts, question.String())
	}

	return strings.Join(parts, "\n\n") + "\n"
}

// Strings cannot contain escape sequences, so quoting is plain concatenation.
func quote(text string) string {
	return `"` + text + `"`
}
