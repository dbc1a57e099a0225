package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/smarthome-go/quiz/quiz/errors"
	"github.com/smarthome-go/quiz/quiz/lexer"
	"github.com/smarthome-go/quiz/quiz/parser/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const EXAMPLE_DIR = "../../examples/"

var ignoreSpans = cmpopts.IgnoreFields(ast.Metaline{}, "Range")
var ignoreQuestionSpans = cmpopts.IgnoreFields(ast.Question{}, "Range")
var ignoreOptionSpans = cmpopts.IgnoreFields(ast.AnswerOption{}, "Range")
var ignoreStyleSpans = cmpopts.IgnoreFields(ast.Style{}, "Range")

var allCapabilities = Capabilities{AnswerOptions: true, Styles: true}

func parse(t *testing.T, program string, capabilities Capabilities) (ast.Quiz, *errors.Error) {
	t.Helper()

	tokens, err := lexer.Tokenize("test.qq", program)
	require.Nil(t, err, "program should tokenize")

	parser := NewParser(tokens, "test.qq", capabilities)
	return parser.Parse()
}

func options(texts ...string) []ast.AnswerOption {
	output := make([]ast.AnswerOption, 0, len(texts))
	for _, text := range texts {
		output = append(output, ast.AnswerOption{Text: text})
	}
	return output
}

func TestParser(t *testing.T) {
	program := `title "test quiz" by "Anonymous" pass 3

question "does life have any meaning?" {
	answer {
		"no"
	}
	value 3
}
`
	tree, err := parse(t, program, Capabilities{})
	require.Nil(t, err)

	expected := ast.Quiz{
		Metaline: ast.Metaline{
			Defined: true,
			Title:   "test quiz",
			By:      "Anonymous",
			Pass:    3,
		},
		Questions: []ast.Question{
			{
				Text:   "does life have any meaning?",
				Answer: ast.Answer{Options: options("no")},
				Value:  3,
			},
		},
		Filename: "test.qq",
	}

	if diff := cmp.Diff(expected, tree, ignoreSpans, ignoreQuestionSpans, ignoreOptionSpans, ignoreStyleSpans); diff != "" {
		t.Errorf("unexpected quiz (-want +got):\n%s\n%s", diff, spew.Sdump(tree))
	}

	assert.Equal(t, errors.Location{Line: 1, Column: 1}, tree.Metaline.Range.Start)
	assert.Equal(t, errors.Location{Line: 1, Column: 40}, tree.Metaline.Range.End)
	assert.Equal(t, errors.Location{Line: 3, Column: 1}, tree.Questions[0].Range.Start)
	assert.Equal(t, errors.Location{Line: 8, Column: 2}, tree.Questions[0].Range.End)
}

func TestParserOptionalCommas(t *testing.T) {
	tree, err := parse(t, `question "q" { answer { "a", "b" "c", }, value 2, }`, Capabilities{})
	require.Nil(t, err)
	require.Len(t, tree.Questions, 1)

	assert.Equal(t, []string{"a", "b", "c"}, tree.Questions[0].Answer.Strings())
	assert.Equal(t, int64(2), tree.Questions[0].Value)
	assert.False(t, tree.Metaline.Defined)
}

func TestParserDefaults(t *testing.T) {
	tree, err := parse(t, `question "q" { }`, Capabilities{})
	require.Nil(t, err)
	require.Len(t, tree.Questions, 1)

	assert.Equal(t, int64(0), tree.Questions[0].Value)
	assert.Empty(t, tree.Questions[0].Answer.Options)

	tree, err = parse(t, "", Capabilities{})
	require.Nil(t, err)
	assert.Empty(t, tree.Questions)
}

func TestParserLastMetalineWins(t *testing.T) {
	tree, err := parse(t, `title "a" by "b" pass 1 title "c" by "d" pass -2`, Capabilities{})
	require.Nil(t, err)

	assert.Equal(t, "c", tree.Metaline.Title)
	assert.Equal(t, "d", tree.Metaline.By)
	assert.Equal(t, int64(-2), tree.Metaline.Pass)
}

func TestParserMergesAnswerBlocks(t *testing.T) {
	tree, err := parse(t, `question "q" { answer { "a" } value 1 answer { "b", "a" } value 4 }`, Capabilities{})
	require.Nil(t, err)

	// duplicates and declaration order are preserved
	assert.Equal(t, []string{"a", "b", "a"}, tree.Questions[0].Answer.Strings())
	assert.Equal(t, int64(4), tree.Questions[0].Value)
}

func TestParserAnswerOptions(t *testing.T) {
	program := `question "q" { answer { "a" pass, "b", "c" pass } }`

	_, err := parse(t, program, Capabilities{})
	require.NotNil(t, err)
	assert.Equal(t, errors.UnsupportedOption, err.Kind)
	assert.Equal(t, errors.Location{Line: 1, Column: 29}, err.Span.Start)

	tree, err := parse(t, program, Capabilities{AnswerOptions: true})
	require.Nil(t, err)

	expected := []ast.AnswerOption{
		{Text: "a", Tagged: true},
		{Text: "b", Tagged: false},
		{Text: "c", Tagged: true},
	}
	if diff := cmp.Diff(expected, tree.Questions[0].Answer.Options, ignoreOptionSpans); diff != "" {
		t.Errorf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestParserStyles(t *testing.T) {
	program := `question "q" { style { fg_red, bg_br_black } answer { show, "a" } value 1 }`

	_, err := parse(t, program, Capabilities{AnswerOptions: true})
	require.NotNil(t, err)
	assert.Equal(t, errors.UnsupportedOption, err.Kind)
	assert.Equal(t, "directive 'style' requires the styles capability", err.Message)
	assert.Equal(t, errors.Location{Line: 1, Column: 16}, err.Span.Start)

	_, err = parse(t, `question "q" { answer { show, "a" } }`, Capabilities{})
	require.NotNil(t, err)
	assert.Equal(t, errors.UnsupportedOption, err.Kind)
	assert.Equal(t, "option marker 'show' requires the styles capability", err.Message)
	assert.Equal(t, errors.Location{Line: 1, Column: 25}, err.Span.Start)

	tree, err := parse(t, program, Capabilities{Styles: true})
	require.Nil(t, err)
	require.Len(t, tree.Questions, 1)

	question := tree.Questions[0]
	require.NotNil(t, question.Style)
	assert.Equal(t, []ast.Color{
		{Layer: ast.Foreground, Bright: false, Hue: ast.Red},
		{Layer: ast.Background, Bright: true, Hue: ast.Black},
	}, question.Style.Colors)
	assert.True(t, question.Answer.Show)
	assert.True(t, question.RevealsAnswer())
	assert.Equal(t, []string{"a"}, question.Answer.Strings())

	// without `show` a styled question hides its answers
	tree, err = parse(t, `question "q" { style { } answer { "a" } }`, Capabilities{Styles: true})
	require.Nil(t, err)
	require.NotNil(t, tree.Questions[0].Style)
	assert.Empty(t, tree.Questions[0].Style.Colors)
	assert.False(t, tree.Questions[0].RevealsAnswer())
}

func TestParserMergesStyleBlocks(t *testing.T) {
	tree, err := parse(t, `question "q" { style { fg_red bg_blue } answer { "a" } style { fg_br_green, } }`, Capabilities{Styles: true})
	require.Nil(t, err)

	style := tree.Questions[0].Style
	require.NotNil(t, style)
	assert.Len(t, style.Colors, 3)

	foreground, ok := style.Foreground()
	require.True(t, ok)
	assert.Equal(t, "fg_br_green", foreground.String())
	assert.Equal(t, uint8(10), foreground.ANSI())

	background, ok := style.Background()
	require.True(t, ok)
	assert.Equal(t, "bg_blue", background.String())
	assert.Equal(t, uint8(4), background.ANSI())
}

func TestParserStyleErrors(t *testing.T) {
	tests := []struct {
		program string
		kind    errors.ErrorKind
		message string
	}{
		{
			program: `question "q" { style { fg_red`,
			kind:    errors.UnterminatedStyle,
			message: "style directive is never closed, expected '}'",
		},
		{
			program: `question "q" { style { "red" } }`,
			kind:    errors.UnexpectedToken,
			message: "unexpected token in style block a string, expected either a color or '}'",
		},
		{
			program: `question "q" { fg_red }`,
			kind:    errors.UnexpectedToken,
			message: "unexpected token in question body a color, expected 'answer', 'value', 'style', or '}'",
		},
		{
			program: `question "q" { style fg_red }`,
			kind:    errors.ExpectedToken,
			message: "expected '{', found a color",
		},
	}

	for _, test := range tests {
		t.Run(test.program, func(t *testing.T) {
			_, err := parse(t, test.program, Capabilities{Styles: true})
			require.NotNil(t, err)
			assert.Equal(t, test.kind, err.Kind)
			assert.Equal(t, test.message, err.Message)
		})
	}
}

func TestColors(t *testing.T) {
	color, ok := ast.ParseColor("bg_br_white")
	require.True(t, ok)
	assert.Equal(t, ast.Color{Layer: ast.Background, Bright: true, Hue: ast.White}, color)
	assert.Equal(t, uint8(15), color.ANSI())

	_, ok = ast.ParseColor("fg_orange")
	assert.False(t, ok)

	// every color keyword of the lexer maps onto a color
	for _, keyword := range lexer.Keywords() {
		tokens, err := lexer.Tokenize("test.qq", keyword)
		require.Nil(t, err)
		if tokens[0].Kind != lexer.Color {
			continue
		}

		color, ok := ast.ParseColor(keyword)
		assert.True(t, ok, keyword)
		assert.Equal(t, keyword, color.String())
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		program string
		kind    errors.ErrorKind
		message string
		start   errors.Location
	}{
		{
			name:    "missing by",
			program: `title "T" pass 1`,
			kind:    errors.ExpectedToken,
			message: "expected 'by', found 'pass'",
			start:   errors.Location{Line: 1, Column: 11},
		},
		{
			name:    "missing pass",
			program: `title "T" by "A" 1`,
			kind:    errors.ExpectedToken,
			message: "expected 'pass', found a number",
			start:   errors.Location{Line: 1, Column: 18},
		},
		{
			name:    "title without string",
			program: `title by`,
			kind:    errors.ExpectedToken,
			message: "expected a string, found 'by'",
			start:   errors.Location{Line: 1, Column: 7},
		},
		{
			name:    "end of input in metaline",
			program: "title \"T\" by\n\n",
			kind:    errors.UnexpectedEnd,
			message: "unexpected end of input, expected a string",
			start:   errors.Location{Line: 1, Column: 11},
		},
		{
			name:    "end of input right after title",
			program: `title`,
			kind:    errors.UnexpectedEnd,
			message: "unexpected end of input, expected a string",
			start:   errors.Location{Line: 1, Column: 1},
		},
		{
			name:    "empty answer",
			program: `question "q" { answer { } }`,
			kind:    errors.EmptyAnswer,
			message: "answer directive must contain at least one string",
			start:   errors.Location{Line: 1, Column: 16},
		},
		{
			name:    "unterminated question",
			program: `question "q" { value 1`,
			kind:    errors.UnterminatedQuestion,
			message: "question 'q' is never closed, expected '}'",
			start:   errors.Location{Line: 1, Column: 1},
		},
		{
			name:    "unterminated answer",
			program: `question "q" { answer { "a",`,
			kind:    errors.UnterminatedAnswer,
			message: "answer directive is never closed, expected '}'",
			start:   errors.Location{Line: 1, Column: 16},
		},
		{
			name:    "question without brace",
			program: `question "q" value 1`,
			kind:    errors.ExpectedToken,
			message: "expected '{', found 'value'",
			start:   errors.Location{Line: 1, Column: 14},
		},
		{
			name:    "answer without brace",
			program: `question "q" { answer "a" }`,
			kind:    errors.ExpectedToken,
			message: "expected '{', found a string",
			start:   errors.Location{Line: 1, Column: 23},
		},
		{
			name:    "value without number",
			program: `question "q" { value "3" }`,
			kind:    errors.ExpectedToken,
			message: "expected a number, found a string",
			start:   errors.Location{Line: 1, Column: 22},
		},
		{
			name:    "unexpected top-level directive",
			program: `value 3`,
			kind:    errors.UnexpectedToken,
			message: "unexpected top-level directive 'value', expected either 'title' or 'question'",
			start:   errors.Location{Line: 1, Column: 1},
		},
		{
			name:    "unexpected token in question body",
			program: `question "q" { title }`,
			kind:    errors.UnexpectedToken,
			message: "unexpected token in question body 'title', expected 'answer', 'value', or '}'",
			start:   errors.Location{Line: 1, Column: 16},
		},
		{
			name:    "unexpected token in answer list",
			program: `question "q" { answer { 3 } }`,
			kind:    errors.UnexpectedToken,
			message: "unexpected token in answer list a number, expected either a string or '}'",
			start:   errors.Location{Line: 1, Column: 25},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := parse(t, test.program, Capabilities{})
			require.NotNil(t, err, "expected an error, got %s", spew.Sdump(tree))

			assert.Equal(t, test.kind, err.Kind)
			assert.Equal(t, test.message, err.Message)
			assert.Equal(t, test.start, err.Span.Start)
			assert.Equal(t, "test.qq", err.Span.Filename)
			assert.Equal(t, ast.Quiz{}, tree)
		})
	}
}

func TestParserIsIdempotent(t *testing.T) {
	files, err := os.ReadDir(EXAMPLE_DIR)
	require.NoError(t, err)

	for _, file := range files {
		t.Run(file.Name(), func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join(EXAMPLE_DIR, file.Name()))
			require.NoError(t, err)

			first, parseErr := parse(t, string(content), allCapabilities)
			require.Nil(t, parseErr)

			second, parseErr := parse(t, string(content), allCapabilities)
			require.Nil(t, parseErr)

			assert.True(t, cmp.Equal(first, second), cmp.Diff(first, second))

			// rendering the quiz yields equivalent source
			rendered, parseErr := parse(t, first.String(), allCapabilities)
			require.Nil(t, parseErr, first.String())

			if diff := cmp.Diff(first, rendered, ignoreSpans, ignoreQuestionSpans, ignoreOptionSpans, ignoreStyleSpans); diff != "" {
				t.Errorf("rendered quiz differs (-want +got):\n%s", diff)
			}
		})
	}
}

func FuzzParser(f *testing.F) {
	files, err := os.ReadDir(EXAMPLE_DIR)
	if err != nil {
		panic(err.Error())
	}

	for _, file := range files {
		content, err := os.ReadFile(fmt.Sprintf("%s/%s", EXAMPLE_DIR, file.Name()))
		if err != nil {
			panic(err.Error())
		}
		f.Add(string(content))
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := lexer.Tokenize(t.Name(), input)
		if err != nil {
			return
		}

		parser := NewParser(tokens, t.Name(), allCapabilities)
		tree, parseErr := parser.Parse()
		if parseErr != nil {
			return
		}

		for _, question := range tree.Questions {
			if len(question.Answer.Options) == 0 {
				continue
			}
			if !question.Answer.Contains(question.Answer.Options[0].Text) {
				t.Errorf("answer %q does not accept its own first option", question.Answer.Options[0].Text)
			}
		}
	})
}
