package lexer

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/smarthome-go/quiz/quiz/errors"
)

// Keywords within this distance of an unknown word are suggested to the user.
const maxSuggestionDistance = 2

type Lexer struct {
	currentIndex int
	currentChar  *rune
	nextChar     *rune
	program      []rune
	location     errors.Location
	filename     string
}

func NewLexer(programSource string, filename string) Lexer {
	program := []rune(programSource)
	programLen := len(program)
	var currentChar *rune
	var nextChar *rune

	if programLen > 0 {
		currentChar = &program[0]
	}
	if programLen > 1 {
		nextChar = &program[1]
	}

	return Lexer{
		currentIndex: 0,
		currentChar:  currentChar,
		nextChar:     nextChar,
		program:      program,
		location:     errors.NewLocation(),
		filename:     filename,
	}
}

// Tokenize drains a new lexer over `program`.
// The trailing EOF token is not part of the output.
func Tokenize(filename string, program string) ([]Token, *errors.Error) {
	lexer := NewLexer(program, filename)
	tokens := make([]Token, 0)

	for {
		token, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if token.Kind == EOF {
			return tokens, nil
		}
		tokens = append(tokens, token)
	}
}

func (self *Lexer) advance() {
	self.location.Advance(self.currentChar != nil && *self.currentChar == '\n')

	self.currentIndex++
	programLen := len(self.program)

	if self.currentIndex >= programLen {
		self.currentChar = nil
	} else {
		self.currentChar = &self.program[self.currentIndex]
	}

	if self.currentIndex+1 >= programLen {
		self.nextChar = nil
	} else {
		self.nextChar = &self.program[self.currentIndex+1]
	}
}

func (self Lexer) span(start errors.Location) errors.Span {
	return errors.Span{
		Start:    start,
		End:      self.location,
		Filename: self.filename,
	}
}

// The newline terminating the comment is consumed as well.
func (self *Lexer) skipLineComment() {
	for self.currentChar != nil && *self.currentChar != '\n' {
		self.advance()
	}

	if self.currentChar != nil {
		self.advance()
	}
}

func (self *Lexer) NextToken() (Token, *errors.Error) {
	for self.currentChar != nil {
		switch char := *self.currentChar; {
		case char == '{':
			return self.makeSingleChar(LBrace), nil
		case char == '}':
			return self.makeSingleChar(RBrace), nil
		case char == ',':
			return self.makeSingleChar(Comma), nil
		case char == '"':
			return self.makeString()
		case char == '-' || isDigit(char):
			return self.makeNumber()
		case char == '#':
			self.skipLineComment()
		case unicode.IsSpace(char):
			self.advance()
		case isWordStart(char):
			return self.makeKeyword()
		default:
			start := self.location
			self.advance()
			return unknownToken(start), errors.NewError(
				self.span(start),
				fmt.Sprintf("encountered unrecognized token '%c'", char),
				errors.UnrecognizedToken,
			)
		}
	}

	return newToken(EOF, "EOF", self.span(self.location)), nil
}

func (self *Lexer) makeSingleChar(kind TokenKind) Token {
	start := self.location
	value := string(*self.currentChar)
	self.advance()
	return newToken(kind, value, self.span(start))
}

func (self *Lexer) makeString() (Token, *errors.Error) {
	start := self.location
	valueBuf := make([]rune, 0)

	// skip opening quote
	self.advance()

	for self.currentChar != nil && *self.currentChar != '"' {
		valueBuf = append(valueBuf, *self.currentChar)
		self.advance()
	}

	if self.currentChar == nil {
		return unknownToken(start), errors.NewError(
			self.span(start),
			"encountered unterminated string",
			errors.UnterminatedString,
		)
	}

	// skip closing quote
	self.advance()

	return newToken(String, string(valueBuf), self.span(start)), nil
}

func (self *Lexer) makeNumber() (Token, *errors.Error) {
	start := self.location
	value := string(*self.currentChar)
	self.advance()

	for self.currentChar != nil && isDigit(*self.currentChar) {
		value += string(*self.currentChar)
		self.advance()
	}

	number, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return unknownToken(start), errors.NewError(
			self.span(start),
			fmt.Sprintf("failed to parse number '%s'", value),
			errors.MalformedNumber,
		)
	}

	token := newToken(Number, value, self.span(start))
	token.Number = number
	return token, nil
}

func (self *Lexer) makeKeyword() (Token, *errors.Error) {
	start := self.location
	value := string(*self.currentChar)
	self.advance()

	for self.currentChar != nil && isWordPart(*self.currentChar) {
		value += string(*self.currentChar)
		self.advance()
	}

	kind, found := keywords[value]
	if !found {
		err := errors.NewError(
			self.span(start),
			fmt.Sprintf("encountered unrecognized keyword '%s'", value),
			errors.InvalidKeyword,
		)
		if suggestion, ok := SuggestKeyword(value); ok {
			err.WithNote(fmt.Sprintf("did you mean '%s'?", suggestion))
		}
		return unknownToken(start), err
	}

	return newToken(kind, value, self.span(start)), nil
}

// SuggestKeyword returns the keyword closest to `word`, if any is close enough.
func SuggestKeyword(word string) (string, bool) {
	best := ""
	bestDistance := maxSuggestionDistance + 1

	for _, keyword := range Keywords() {
		distance := levenshtein.ComputeDistance(word, keyword)
		if distance < bestDistance {
			best = keyword
			bestDistance = distance
		}
	}

	return best, best != ""
}
