package diagnostic

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/quiz/quiz/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	colorRed     uint8 = 31
	colorGreen   uint8 = 32
	colorCyan    uint8 = 36
	colorDefault uint8 = 39
)

// Display renders `err` together with the lines of `program` it points at.
// ANSI escape codes are only emitted if `color` is set.
func Display(err *errors.Error, program string, color bool) string {
	paint := painter{enabled: color}
	caser := cases.Title(language.English)
	kind := caser.String(err.Kind.String())

	notes := ""
	for _, note := range err.Notes {
		notes += fmt.Sprintf("%s - note:%s %s\n", paint.col(colorCyan, true), paint.reset(), note)
	}

	lines := strings.Split(program, "\n")
	start, end := err.Span.Start, err.Span.End

	// take special action if there is no useful span / the source code is empty
	if start.Line == 0 || int(start.Line) > len(lines) {
		return fmt.Sprintf(
			"%s%s%s in %s%s\n%s\n%s",
			paint.col(colorRed, true),
			kind,
			paint.col(colorDefault, true),
			err.Span.Filename,
			paint.reset(),
			err.Message,
			notes,
		)
	}

	gutter := func(line uint) string {
		return fmt.Sprintf(" %s%-3d | %s", paint.seq("90"), line, paint.reset())
	}

	line1 := ""
	if start.Line > 1 {
		line1 = fmt.Sprintf("\n%s%s", gutter(start.Line-1), lines[start.Line-2])
	}
	line2 := fmt.Sprintf("%s%s", gutter(start.Line), lines[start.Line-1])
	line3 := ""
	if int(start.Line) < len(lines) {
		line3 = fmt.Sprintf("\n%s%s", gutter(start.Line+1), lines[start.Line])
	}

	markers := ""
	if start.Line == end.Line {
		// spans are exclusive, a span of width one covers a single character
		width := 1
		if end.Column > start.Column {
			width = int(end.Column - start.Column)
		}
		markers = strings.Repeat("^", width)
	} else {
		s := "s"
		if end.Line-start.Line == 1 {
			s = ""
		}

		width := len([]rune(lines[start.Line-1])) - int(start.Column) + 1
		if width < 1 {
			width = 1
		}

		markers = fmt.Sprintf(
			"%s ...\n%s%s+ %d more line%s%s",
			strings.Repeat("^", width),
			strings.Repeat(" ", int(start.Column)+6),
			paint.col(colorGreen, true),
			end.Line-start.Line,
			s,
			paint.reset(),
		)
	}

	marker := fmt.Sprintf(
		"%s%s%s%s",
		paint.col(colorRed, true),
		strings.Repeat(" ", int(start.Column)+6),
		markers,
		paint.reset(),
	)

	return fmt.Sprintf(
		"%s%s%s at %s:%d:%d%s\n%s\n%s\n%s%s\n\n%s%s%s\n%s",
		paint.col(colorRed, true),
		kind,
		paint.col(colorDefault, true),
		err.Span.Filename,
		start.Line,
		start.Column,
		paint.reset(),
		line1,
		line2,
		marker,
		line3,
		paint.col(colorRed, true),
		err.Message,
		paint.reset(),
		notes,
	)
}

type painter struct {
	enabled bool
}

func (self painter) seq(code string) string {
	if !self.enabled {
		return ""
	}
	return fmt.Sprintf("\x1b[%sm", code)
}

func (self painter) col(color uint8, bold bool) string {
	if bold {
		return self.seq(fmt.Sprintf("1;%d", color))
	}
	return self.seq(fmt.Sprintf("%d", color))
}

func (self painter) reset() string {
	return self.seq("0")
}
