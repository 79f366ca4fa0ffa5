package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-formatic"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	templatePath string
	format       string
	engine       engineFlags
	fs           *flag.FlagSet
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid        bool                   `json:"valid"`
	Placeholders []string               `json:"placeholders,omitempty"`
	Error        *validationErrorOutput `json:"error,omitempty"`
}

type validationErrorOutput struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	engine, err := cfg.engine.newEngine(cfg.fs, stderr)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidSettings, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	output := buildValidationOutput(engine, string(source))
	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
	} else {
		outputValidationText(output, stdout)
	}

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &validateConfig{fs: fs}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	cfg.engine.register(fs, false)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func buildValidationOutput(engine *formatic.Engine, source string) validationOutput {
	tmpl, err := engine.Compile(source)
	if err == nil {
		return validationOutput{Valid: true, Placeholders: tmpl.Placeholders()}
	}

	detail := &validationErrorOutput{Message: err.Error()}
	if kind, ok := formatic.KindOf(err); ok {
		detail.Kind = string(kind)
	}
	if pos, ok := formatic.PositionOf(err); ok {
		detail.Offset = pos.Offset
		detail.Line = pos.Line
		detail.Column = pos.Column
	}
	return validationOutput{Valid: false, Error: detail}
}

func outputValidationText(output validationOutput, stdout io.Writer) {
	if output.Valid {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		fmt.Fprintf(stdout, ValidationTextPlaceholders+FmtNewline, len(output.Placeholders))
		return
	}

	e := output.Error
	fmt.Fprintf(stdout, ValidationTextFailure+FmtNewline, e.Kind, e.Message, e.Line, e.Column)
}
