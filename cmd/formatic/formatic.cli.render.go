package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-formatic"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	dataJSON     string
	dataFilePath string
	outputPath   string
	storePath    string
	engine       engineFlags
	fs           *flag.FlagSet
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	engine, err := cfg.engine.newEngine(cfg.fs, stderr)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidSettings, err)
		return ExitCodeUsageError
	}

	if cfg.storePath != "" {
		if err := loadStore(engine, cfg.storePath); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadStoreFailed, err)
			return ExitCodeInputError
		}
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	formatArgs, err := loadArgs(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	tmpl, err := engine.Compile(string(source))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeValidationError
	}

	result, err := engine.Render(tmpl, formatArgs...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderConfig{fs: fs}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.storePath, FlagStore, "", "")
	cfg.engine.register(fs, true)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	return cfg, nil
}

// loadStore registers every template saved under dir with the engine
func loadStore(engine *formatic.Engine, dir string) error {
	storage, err := formatic.OpenStorage(formatic.StorageDriverNameFilesystem, dir)
	if err != nil {
		return err
	}
	defer storage.Close()

	_, err = engine.LoadTemplates(context.Background(), storage)
	return err
}
