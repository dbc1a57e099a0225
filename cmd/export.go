package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/smarthome-go/quiz/quiz/history"
	"github.com/smarthome-go/quiz/quiz/parser"
	"github.com/smarthome-go/quiz/quiz/parser/ast"
	"gopkg.in/yaml.v3"
)

type exportFormat string

const (
	formatJSON exportFormat = "json"
	formatYAML exportFormat = "yaml"
	formatText exportFormat = "text"
)

type exportedQuiz struct {
	Version  int      `json:"version" yaml:"version"`
	Quiz     ast.Quiz `json:"quiz" yaml:"quiz"`
	Possible int64    `json:"possible" yaml:"possible"`
}

func writeEncoded(output io.Writer, format exportFormat, value any) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "    ")
		return encoder.Encode(value)
	case formatYAML:
		encoder := yaml.NewEncoder(output)
		encoder.SetIndent(4)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("illegal format `%s`: valid values are `json` and `yaml`", format)
	}
}

func exportQuiz(output io.Writer, format exportFormat, quiz ast.Quiz) error {
	return writeEncoded(output, format, exportedQuiz{
		Version:  parser.GrammarVersion,
		Quiz:     quiz,
		Possible: quiz.Possible(),
	})
}

func exportAttempts(output io.Writer, format exportFormat, attempts []history.Attempt) error {
	if format != formatText {
		return writeEncoded(output, format, attempts)
	}

	if len(attempts) == 0 {
		_, err := fmt.Fprintln(output, "no attempts recorded")
		return err
	}

	for _, attempt := range attempts {
		if _, err := fmt.Fprintln(output, attempt); err != nil {
			return err
		}
	}

	return nil
}
