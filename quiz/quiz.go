package quiz

import (
	"github.com/smarthome-go/quiz/quiz/errors"
	"github.com/smarthome-go/quiz/quiz/lexer"
	"github.com/smarthome-go/quiz/quiz/parser"
	"github.com/smarthome-go/quiz/quiz/parser/ast"
	"github.com/smarthome-go/quiz/quiz/runner"
)

type Capabilities = parser.Capabilities

// Tokenize returns every token of `program` in source order.
func Tokenize(filename string, program string) ([]lexer.Token, *errors.Error) {
	return lexer.Tokenize(filename, program)
}

// Parse lexes and parses `program`.
// The first lexical or syntactic error aborts and no quiz is returned.
func Parse(filename string, program string, capabilities Capabilities) (ast.Quiz, *errors.Error) {
	tokens, err := lexer.Tokenize(filename, program)
	if err != nil {
		return ast.Quiz{}, err
	}

	p := parser.NewParser(tokens, filename, capabilities)
	return p.Parse()
}

// Run plays `quiz` through `executor` using the default prompt.
func Run(quiz ast.Quiz, executor runner.Executor) (runner.Result, error) {
	r := runner.NewRunner(quiz, executor)
	return r.Run()
}
