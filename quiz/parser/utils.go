package parser

import (
	"fmt"

	"github.com/smarthome-go/quiz/quiz/errors"
	"github.com/smarthome-go/quiz/quiz/lexer"
)

func (self Parser) done() bool {
	return self.index >= len(self.tokens)
}

func (self Parser) peek() (lexer.Token, bool) {
	if self.done() {
		return lexer.Token{}, false
	}
	return self.tokens[self.index], true
}

// Callers must check `done` first.
func (self *Parser) next() lexer.Token {
	token := self.tokens[self.index]
	self.index++
	self.PreviousToken = token
	return token
}

func (self *Parser) skipComma() {
	if token, ok := self.peek(); ok && token.Kind == lexer.Comma {
		self.next()
	}
}

// Spans from the start of `first` to the end of the most recently consumed token.
func (self Parser) spanFrom(first lexer.Token) errors.Span {
	return errors.Span{
		Start:    first.Span.Start,
		End:      self.PreviousToken.Span.End,
		Filename: self.Filename,
	}
}

func (self *Parser) expect(expected lexer.TokenKind) (lexer.Token, *errors.Error) {
	if self.done() {
		return lexer.Token{}, errors.NewError(
			self.PreviousToken.Span,
			fmt.Sprintf("unexpected end of input, expected %s", describe(expected)),
			errors.UnexpectedEnd,
		)
	}

	token := self.next()
	if token.Kind != expected {
		return lexer.Token{}, errors.NewError(
			token.Span,
			fmt.Sprintf("expected %s, found %s", describe(expected), describe(token.Kind)),
			errors.ExpectedToken,
		)
	}

	return token, nil
}

func (self Parser) unexpectedErr(found lexer.Token, context string, expected ...lexer.TokenKind) *errors.Error {
	message := ""

	switch len(expected) {
	case 1:
		message = describe(expected[0])
	case 2:
		message = fmt.Sprintf("either %s or %s", describe(expected[0]), describe(expected[1]))
	default:
		for idx, expectedItem := range expected {
			if idx == len(expected)-1 {
				message += ", or "
			} else if message != "" {
				message += ", "
			}
			message += describe(expectedItem)
		}
	}

	return errors.NewError(
		found.Span,
		fmt.Sprintf("unexpected %s %s, expected %s", context, describe(found.Kind), message),
		errors.UnexpectedToken,
	)
}

func describe(kind lexer.TokenKind) string {
	switch kind {
	case lexer.String, lexer.Number, lexer.Color:
		return fmt.Sprintf("a %s", kind)
	default:
		return fmt.Sprintf("'%s'", kind)
	}
}
