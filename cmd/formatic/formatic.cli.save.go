package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-formatic"
)

// saveConfig holds parsed save command configuration
type saveConfig struct {
	templatePath string
	name         string
	storePath    string
	engine       engineFlags
	fs           *flag.FlagSet
}

func runSave(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseSaveFlags(args)
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

	storage, err := formatic.OpenStorage(formatic.StorageDriverNameFilesystem, cfg.storePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgSaveFailed, err)
		return ExitCodeInputError
	}
	defer storage.Close()

	stored, err := engine.SaveTemplate(context.Background(), storage, cfg.name, string(source))
	if err != nil {
		if _, ok := formatic.KindOf(err); ok {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
			return ExitCodeValidationError
		}
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgSaveFailed, err)
		return ExitCodeError
	}

	fmt.Fprintf(stdout, SaveTextSuccess+FmtNewline, stored.Name, stored.Version, stored.Placeholders)
	return ExitCodeSuccess
}

func parseSaveFlags(args []string) (*saveConfig, error) {
	fs := flag.NewFlagSet(CmdNameSave, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &saveConfig{fs: fs}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.name, FlagName, "", "")
	fs.StringVar(&cfg.name, FlagNameShort, "", "")
	fs.StringVar(&cfg.storePath, FlagStore, "", "")
	cfg.engine.register(fs, false)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case cfg.templatePath == "":
		return nil, errors.New(ErrMsgMissingTemplate)
	case cfg.name == "":
		return nil, errors.New(ErrMsgMissingName)
	case cfg.storePath == "":
		return nil, errors.New(ErrMsgMissingStore)
	}
	return cfg, nil
}
