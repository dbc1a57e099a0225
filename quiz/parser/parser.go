package parser

import (
	"fmt"

	"github.com/smarthome-go/quiz/quiz/errors"
	"github.com/smarthome-go/quiz/quiz/lexer"
	"github.com/smarthome-go/quiz/quiz/parser/ast"
)

// Version of the grammar accepted by this parser without any capabilities.
const GrammarVersion = 1

// Capabilities enable optional grammar productions on top of the base grammar.
type Capabilities struct {
	// Allows a `pass` marker after a string in an answer list.
	AnswerOptions bool `json:"answer_options" yaml:"answer_options" toml:"answer_options"`
	// Allows `style { ... }` blocks in questions and a `show` marker in answer lists.
	Styles bool `json:"styles" yaml:"styles" toml:"styles"`
}

type Parser struct {
	tokens       []lexer.Token
	index        int
	Capabilities Capabilities
	// The most recently consumed token, used to locate end-of-input errors.
	PreviousToken lexer.Token
	Filename      string
}

func NewParser(tokens []lexer.Token, filename string, capabilities Capabilities) Parser {
	start := errors.NewLocation()

	return Parser{
		tokens:       tokens,
		index:        0,
		Capabilities: capabilities,
		PreviousToken: lexer.Token{
			Kind: lexer.Unknown,
			Span: errors.Span{Start: start, End: start, Filename: filename},
		},
		Filename: filename,
	}
}

func (self *Parser) Parse() (ast.Quiz, *errors.Error) {
	tree := ast.Quiz{
		Metaline:  ast.Metaline{},
		Questions: make([]ast.Question, 0),
		Filename:  self.Filename,
	}

	for !self.done() {
		token := self.next()

		switch token.Kind {
		case lexer.Title:
			// a later metaline silently replaces an earlier one
			metaline, err := self.metaline(token)
			if err != nil {
				return ast.Quiz{}, err
			}
			tree.Metaline = metaline
		case lexer.Question:
			question, err := self.question(token)
			if err != nil {
				return ast.Quiz{}, err
			}
			tree.Questions = append(tree.Questions, question)
		default:
			return ast.Quiz{}, self.unexpectedErr(token, "top-level directive", lexer.Title, lexer.Question)
		}
	}

	return tree, nil
}

func (self *Parser) metaline(titleToken lexer.Token) (ast.Metaline, *errors.Error) {
	title, err := self.expect(lexer.String)
	if err != nil {
		return ast.Metaline{}, err
	}

	if _, err := self.expect(lexer.By); err != nil {
		return ast.Metaline{}, err
	}

	by, err := self.expect(lexer.String)
	if err != nil {
		return ast.Metaline{}, err
	}

	if _, err := self.expect(lexer.Pass); err != nil {
		return ast.Metaline{}, err
	}

	pass, err := self.expect(lexer.Number)
	if err != nil {
		return ast.Metaline{}, err
	}

	return ast.Metaline{
		Defined: true,
		Title:   title.Value,
		By:      by.Value,
		Pass:    pass.Number,
		Range:   self.spanFrom(titleToken),
	}, nil
}

func (self *Parser) question(questionToken lexer.Token) (ast.Question, *errors.Error) {
	text, err := self.expect(lexer.String)
	if err != nil {
		return ast.Question{}, err
	}

	if _, err := self.expect(lexer.LBrace); err != nil {
		return ast.Question{}, err
	}

	question := ast.Question{
		Text: text.Value,
		Answer: ast.Answer{
			Options: make([]ast.AnswerOption, 0),
		},
		Value: 0,
	}

	for {
		if self.done() {
			return ast.Question{}, errors.NewError(
				self.spanFrom(questionToken),
				fmt.Sprintf("question '%s' is never closed, expected '%s'", text.Value, lexer.RBrace),
				errors.UnterminatedQuestion,
			)
		}

		token := self.next()

		switch token.Kind {
		case lexer.RBrace:
			question.Range = self.spanFrom(questionToken)
			return question, nil
		case lexer.Value:
			value, err := self.expect(lexer.Number)
			if err != nil {
				return ast.Question{}, err
			}
			question.Value = value.Number
			self.skipComma()
		case lexer.Answer:
			answer, err := self.answer(token)
			if err != nil {
				return ast.Question{}, err
			}
			question.Answer.Options = append(question.Answer.Options, answer.Options...)
			question.Answer.Show = question.Answer.Show || answer.Show
			self.skipComma()
		case lexer.Style:
			if !self.Capabilities.Styles {
				return ast.Question{}, errors.NewError(
					token.Span,
					fmt.Sprintf("directive '%s' requires the styles capability", lexer.Style),
					errors.UnsupportedOption,
				)
			}

			style, err := self.style(token)
			if err != nil {
				return ast.Question{}, err
			}

			// repeated blocks accumulate, later colors override earlier ones
			if question.Style != nil {
				style.Colors = append(question.Style.Colors, style.Colors...)
			}
			question.Style = &style
			self.skipComma()
		default:
			if self.Capabilities.Styles {
				return ast.Question{}, self.unexpectedErr(token, "token in question body", lexer.Answer, lexer.Value, lexer.Style, lexer.RBrace)
			}
			return ast.Question{}, self.unexpectedErr(token, "token in question body", lexer.Answer, lexer.Value, lexer.RBrace)
		}
	}
}

func (self *Parser) answer(answerToken lexer.Token) (ast.Answer, *errors.Error) {
	if _, err := self.expect(lexer.LBrace); err != nil {
		return ast.Answer{}, err
	}

	options := make([]ast.AnswerOption, 0)
	show := false

	for {
		if self.done() {
			return ast.Answer{}, errors.NewError(
				self.spanFrom(answerToken),
				fmt.Sprintf("answer directive is never closed, expected '%s'", lexer.RBrace),
				errors.UnterminatedAnswer,
			)
		}

		token := self.next()

		switch token.Kind {
		case lexer.RBrace:
			if len(options) == 0 {
				return ast.Answer{}, errors.NewError(
					self.spanFrom(answerToken),
					"answer directive must contain at least one string",
					errors.EmptyAnswer,
				)
			}
			return ast.Answer{Options: options, Show: show}, nil
		case lexer.Show:
			if !self.Capabilities.Styles {
				return ast.Answer{}, errors.NewError(
					token.Span,
					fmt.Sprintf("option marker '%s' requires the styles capability", lexer.Show),
					errors.UnsupportedOption,
				)
			}
			show = true
			self.skipComma()
		case lexer.String:
			option := ast.AnswerOption{
				Text:   token.Value,
				Tagged: false,
				Range:  token.Span,
			}

			if marker, ok := self.peek(); ok && marker.Kind == lexer.Pass {
				if !self.Capabilities.AnswerOptions {
					return ast.Answer{}, errors.NewError(
						marker.Span,
						fmt.Sprintf("option marker '%s' requires the answer options capability", lexer.Pass),
						errors.UnsupportedOption,
					)
				}
				self.next()
				option.Tagged = true
				option.Range = self.spanFrom(token)
			}

			options = append(options, option)
			self.skipComma()
		default:
			return ast.Answer{}, self.unexpectedErr(token, "token in answer list", lexer.String, lexer.RBrace)
		}
	}
}

func (self *Parser) style(styleToken lexer.Token) (ast.Style, *errors.Error) {
	if _, err := self.expect(lexer.LBrace); err != nil {
		return ast.Style{}, err
	}

	style := ast.Style{Colors: make([]ast.Color, 0)}

	for {
		if self.done() {
			return ast.Style{}, errors.NewError(
				self.spanFrom(styleToken),
				fmt.Sprintf("style directive is never closed, expected '%s'", lexer.RBrace),
				errors.UnterminatedStyle,
			)
		}

		token := self.next()

		switch token.Kind {
		case lexer.RBrace:
			style.Range = self.spanFrom(styleToken)
			return style, nil
		case lexer.Color:
			color, ok := ast.ParseColor(token.Value)
			if !ok {
				panic(fmt.Sprintf("lexer produced color token with unknown value `%s`", token.Value))
			}
			style.Colors = append(style.Colors, color)
			self.skipComma()
		default:
			return ast.Style{}, self.unexpectedErr(token, "token in style block", lexer.Color, lexer.RBrace)
		}
	}
}
