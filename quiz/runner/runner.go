package runner

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smarthome-go/quiz/quiz/parser/ast"
)

const DefaultPrompt = "=> "

type Runner struct {
	Quiz     ast.Quiz
	Executor Executor
	Prompt   string
}

func NewRunner(quiz ast.Quiz, executor Executor) Runner {
	return Runner{
		Quiz:     quiz,
		Executor: executor,
		Prompt:   DefaultPrompt,
	}
}

// Run walks every question in declaration order and reports the final score.
// Any I/O failure aborts the session.
func (self *Runner) Run() (Result, error) {
	metaline := self.Quiz.Metaline
	result := newResult(metaline.Pass)

	if err := self.writeLines(
		line{HeaderLine, metaline.Title},
		line{AuthorLine, fmt.Sprintf("by %s", metaline.By)},
		line{ThresholdLine, fmt.Sprintf("pass %d", metaline.Pass)},
	); err != nil {
		return Result{}, err
	}

	for _, question := range self.Quiz.Questions {
		outcome, err := self.ask(question)
		if err != nil {
			return Result{}, err
		}
		result.Record(outcome)
	}

	result.Finish()

	verdict := "failed"
	if result.Passed {
		verdict = "passed"
	}

	if err := self.writeLines(
		line{SummaryLine, fmt.Sprintf("scored %d out of %d", result.Score, result.Total)},
		line{VerdictLine, verdict},
	); err != nil {
		return Result{}, err
	}

	return result, nil
}

func (self *Runner) ask(question ast.Question) (Outcome, error) {
	if err := self.writeQuestion(question); err != nil {
		return Outcome{}, err
	}

	if err := self.Executor.Prompt(self.Prompt); err != nil {
		return Outcome{}, fmt.Errorf("failed to flush output: %w", err)
	}

	given, err := self.Executor.ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return Outcome{}, fmt.Errorf("failed to read input: %w", err)
	}
	given = strings.TrimSpace(given)

	outcome := Outcome{
		Question: question.Text,
		Given:    given,
		Correct:  question.Answer.Contains(given),
		Value:    question.Value,
	}

	if outcome.Correct {
		err = self.writeLines(line{CorrectLine, "correct answer!"})
	} else if question.RevealsAnswer() {
		err = self.writeLines(line{WrongLine, fmt.Sprintf("wrong answer! expected one of: %s", quoteAll(question.Answer.Strings()))})
	} else {
		err = self.writeLines(line{WrongLine, "wrong answer!"})
	}

	return outcome, err
}

type line struct {
	kind LineKind
	text string
}

func (self *Runner) writeQuestion(question ast.Question) error {
	text := fmt.Sprintf("%s [%d]", question.Text, question.Value)

	styled, ok := self.Executor.(StyledExecutor)
	if question.Style == nil || !ok {
		return self.writeLines(line{QuestionLine, text})
	}

	if err := styled.WriteStyledLine(QuestionLine, text, *question.Style); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (self *Runner) writeLines(lines ...line) error {
	for _, item := range lines {
		if err := self.Executor.WriteLine(item.kind, item.text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func quoteAll(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, fmt.Sprintf("%q", item))
	}
	return strings.Join(quoted, ", ")
}
