package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/smarthome-go/quiz/quiz"
	"github.com/smarthome-go/quiz/quiz/diagnostic"
	"github.com/smarthome-go/quiz/quiz/errors"
	"github.com/smarthome-go/quiz/quiz/history"
	"github.com/smarthome-go/quiz/quiz/parser/ast"
	"github.com/smarthome-go/quiz/quiz/runner"
	"github.com/urfave/cli/v2"
)

const programName = "qqg"
const version = "0.1.0"
const defaultHistoryLimit = 20

// environment is set up once before any command runs.
type environment struct {
	config   Config
	color    bool
	logger   *slog.Logger
	closeLog func() error
}

func fileValidator(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("Expected exactly one argument <file>")
	}
	return nil
}

func (self *environment) setup(ctx *cli.Context) error {
	config := DefaultConfig()

	if path := ctx.String("config"); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return err
		}
		config = loaded
	}

	if err := config.applyFlags(ctx); err != nil {
		return err
	}

	stdout, _ := ctx.App.Writer.(*os.File)
	self.config = config
	self.color = config.UseColor(stdout)

	logger, closeLog, err := newLogger(ctx.App.ErrWriter, ctx.Bool("verbose"), config.LogFile)
	if err != nil {
		return err
	}
	self.logger = logger
	self.closeLog = closeLog

	self.logger.Debug("configuration loaded", "color", self.color, "answer_options", config.AnswerOptions, "styles", config.Styles)
	return nil
}

func (self *environment) teardown(ctx *cli.Context) error {
	if self.closeLog == nil {
		return nil
	}
	return self.closeLog()
}

func (self *environment) capabilities() quiz.Capabilities {
	return quiz.Capabilities{
		AnswerOptions: self.config.AnswerOptions,
		Styles:        self.config.Styles,
	}
}

// readProgram returns the file named by the first argument.
func (self *environment) readProgram(ctx *cli.Context) (string, string, error) {
	filename := ctx.Args().Get(0)

	file, err := os.ReadFile(filename)
	if err != nil {
		return "", "", err
	}

	return filename, string(file), nil
}

// loadQuiz reads and parses the file named by the first argument.
// A syntax error is printed and turned into exit code 1.
func (self *environment) loadQuiz(ctx *cli.Context) (ast.Quiz, error) {
	filename, program, err := self.readProgram(ctx)
	if err != nil {
		return ast.Quiz{}, err
	}

	start := time.Now()
	parsed, syntaxErr := quiz.Parse(filename, program, self.capabilities())
	if syntaxErr != nil {
		self.printSyntaxError(ctx, syntaxErr, program)
		return ast.Quiz{}, cli.Exit("", 1)
	}

	self.logger.Debug("parsed quiz", "file", filename, "questions", len(parsed.Questions), "elapsed", time.Since(start))
	return parsed, nil
}

func (self *environment) printSyntaxError(ctx *cli.Context, err *errors.Error, program string) {
	self.logger.Debug("rejected program", "kind", err.Kind.String(), "span", err.Span.String())

	if ctx.Bool("pretty") {
		fmt.Fprintln(ctx.App.ErrWriter, diagnostic.Display(err, program, self.color))
		return
	}

	fmt.Fprintln(ctx.App.ErrWriter, err.Error())
}

func (self *environment) openHistory(path string) (*history.Store, error) {
	if path == "" {
		path = self.config.History
	}
	if path == "" {
		return nil, fmt.Errorf("no history database configured: use --db or the `history` config key")
	}
	return history.Open(path)
}

func newApp() *cli.App {
	env := &environment{}

	// nolint:exhaustruct
	return &cli.App{
		Name:     programName,
		Usage:    "Play quizzes written in the quick quiz format",
		Version:  version,
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "The Smarthome Authors",
				Email: "",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Load settings from a TOML or YAML file",
				Aliases: []string{"c"},
				EnvVars: []string{"QQG_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "When to decorate output: `auto`, `always` or `never`",
			},
			&cli.BoolFlag{
				Name:  "options",
				Usage: "Allow the `pass` option marker in answer lists",
			},
			&cli.BoolFlag{
				Name:  "styles",
				Usage: "Allow `style` blocks in questions and the `show` marker in answer lists",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Show syntax errors with the surrounding source code",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enables debug logging",
				Aliases: []string{"V"},
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Additionally write JSON logs to this file",
			},
		},
		Before: env.setup,
		After:  env.teardown,
		Commands: []*cli.Command{
			{
				Name:      "start",
				Aliases:   []string{"run"},
				Usage:     "Play a quiz interactively",
				ArgsUsage: "[file]",
				Args:      true,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prompt",
						Usage: "Text shown in front of every answer",
					},
					&cli.StringFlag{
						Name:  "history",
						Usage: "Record the result in this SQLite database",
					},
				},
				Before: fileValidator,
				Action: env.start,
			},
			{
				Name:      "check",
				Usage:     "Validate a quiz without playing it",
				ArgsUsage: "[file]",
				Args:      true,
				Before:    fileValidator,
				Action:    env.check,
			},
			{
				Name:      "tokens",
				Usage:     "Print every token of a quiz with its location",
				ArgsUsage: "[file]",
				Args:      true,
				Before:    fileValidator,
				Action:    env.tokens,
			},
			{
				Name:      "dump",
				Usage:     "Print the syntax tree of a quiz",
				ArgsUsage: "[file]",
				Args:      true,
				Before:    fileValidator,
				Action: func(ctx *cli.Context) error {
					parsed, err := env.loadQuiz(ctx)
					if err != nil {
						return err
					}
					spew.Fdump(ctx.App.Writer, parsed)
					return nil
				},
			},
			{
				Name:      "fmt",
				Usage:     "Print a quiz in canonical formatting",
				ArgsUsage: "[file]",
				Args:      true,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "write",
						Usage:   "Replace the file instead of printing",
						Aliases: []string{"w"},
					},
				},
				Before: fileValidator,
				Action: env.format,
			},
			{
				Name:      "export",
				Usage:     "Print a quiz as JSON or YAML",
				ArgsUsage: "[file]",
				Args:      true,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Usage:   "Output format: `json` or `yaml`",
						Value:   string(formatJSON),
						Aliases: []string{"f"},
					},
				},
				Before: fileValidator,
				Action: func(ctx *cli.Context) error {
					parsed, err := env.loadQuiz(ctx)
					if err != nil {
						return err
					}
					return exportQuiz(ctx.App.Writer, exportFormat(ctx.String("format")), parsed)
				},
			},
			{
				Name:  "history",
				Usage: "List recorded attempts, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "SQLite database to read from",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Only list attempts of this quiz file",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of attempts to list, 0 lists all",
						Value: defaultHistoryLimit,
					},
					&cli.StringFlag{
						Name:    "format",
						Usage:   "Output format: `text`, `json` or `yaml`",
						Value:   string(formatText),
						Aliases: []string{"f"},
					},
				},
				Action: env.listHistory,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

//
// Commands
//

func (self *environment) start(ctx *cli.Context) error {
	parsed, err := self.loadQuiz(ctx)
	if err != nil {
		return err
	}

	prompt := self.config.Prompt
	if ctx.IsSet("prompt") {
		prompt = ctx.String("prompt")
	}

	session := runner.NewRunner(parsed, newConsoleExecutor(ctx.App.Reader, ctx.App.Writer, self.color))
	session.Prompt = prompt

	result, err := session.Run()
	if err != nil {
		return err
	}

	self.logger.Info(
		"session finished",
		"file", parsed.Filename,
		"score", result.Score,
		"total", result.Total,
		"passed", result.Passed,
	)

	historyPath := self.config.History
	if ctx.IsSet("history") {
		historyPath = ctx.String("history")
	}
	if historyPath == "" {
		return nil
	}

	store, err := self.openHistory(historyPath)
	if err != nil {
		self.logger.Warn("could not open history", "path", historyPath, "error", err)
		return nil
	}
	defer store.Close()

	attempt := history.NewAttempt(parsed, result)
	if err := store.Record(context.Background(), attempt); err != nil {
		self.logger.Warn("could not record attempt", "path", historyPath, "error", err)
		return nil
	}

	self.logger.Debug("attempt recorded", "id", attempt.ID, "path", historyPath)
	return nil
}

func (self *environment) check(ctx *cli.Context) error {
	parsed, err := self.loadQuiz(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(
		ctx.App.Writer,
		"ok: %s: %d question(s), %d point(s), pass at %d\n",
		parsed.Filename,
		len(parsed.Questions),
		parsed.Possible(),
		parsed.Metaline.Pass,
	)

	if parsed.Metaline.Pass > parsed.Possible() {
		self.logger.Warn("quiz cannot be passed", "file", parsed.Filename, "pass", parsed.Metaline.Pass, "possible", parsed.Possible())
	}

	return nil
}

func (self *environment) tokens(ctx *cli.Context) error {
	filename, program, err := self.readProgram(ctx)
	if err != nil {
		return err
	}

	tokens, syntaxErr := quiz.Tokenize(filename, program)
	if syntaxErr != nil {
		self.printSyntaxError(ctx, syntaxErr, program)
		return cli.Exit("", 1)
	}

	for _, token := range tokens {
		fmt.Fprintf(
			ctx.App.Writer,
			"(%d:%d--%d:%d) ==> %v | %v\n",
			token.Span.Start.Line,
			token.Span.Start.Column,
			token.Span.End.Line,
			token.Span.End.Column,
			token.Kind,
			token.Value,
		)
	}

	return nil
}

func (self *environment) format(ctx *cli.Context) error {
	parsed, err := self.loadQuiz(ctx)
	if err != nil {
		return err
	}

	if !ctx.Bool("write") {
		_, err := fmt.Fprint(ctx.App.Writer, parsed.String())
		return err
	}

	info, err := os.Stat(parsed.Filename)
	if err != nil {
		return err
	}

	return os.WriteFile(parsed.Filename, []byte(parsed.String()), info.Mode().Perm())
}

func (self *environment) listHistory(ctx *cli.Context) error {
	store, err := self.openHistory(ctx.String("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	attempts, err := store.List(context.Background(), history.Filter{
		Filename: ctx.String("file"),
		Limit:    ctx.Int("limit"),
	})
	if err != nil {
		return err
	}

	return exportAttempts(ctx.App.Writer, exportFormat(ctx.String("format")), attempts)
}
