package errors

import "fmt"

// End is exclusive: it points at the cursor right after the last character.
type Span struct {
	Start    Location `json:"start" yaml:"start"`
	End      Location `json:"end" yaml:"end"`
	Filename string   `json:"filename" yaml:"filename"`
}

type Location struct {
	Line   uint `json:"line" yaml:"line"`
	Column uint `json:"column" yaml:"column"`
}

func NewLocation() Location {
	return Location{
		Line:   1,
		Column: 1,
	}
}

func (self *Location) Advance(newline bool) {
	if newline {
		self.Column = 1
		self.Line += 1
	} else {
		self.Column += 1
	}
}

// Before reports whether `self` comes strictly before `other` in the source.
func (self Location) Before(other Location) bool {
	if self.Line != other.Line {
		return self.Line < other.Line
	}
	return self.Column < other.Column
}

func (self Location) String() string {
	return fmt.Sprintf("%d:%d", self.Line, self.Column)
}

func (self Span) String() string {
	return fmt.Sprintf("%s--%s", self.Start, self.End)
}
