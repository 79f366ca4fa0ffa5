package main

import (
	"errors"
	"flag"
	"io"
	"unicode/utf8"

	"github.com/itsatony/go-formatic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// engineFlags holds the flags shared by commands that build an engine
type engineFlags struct {
	settingsPath    string
	convertLiterals bool
	escapeChar      string
	missing         string
	verbose         bool
}

func (f *engineFlags) register(fs *flag.FlagSet, withRender bool) {
	fs.StringVar(&f.settingsPath, FlagSettings, "", "")
	fs.BoolVar(&f.convertLiterals, FlagConvertLiterals, false, "")
	fs.StringVar(&f.escapeChar, FlagEscapeChar, "", "")
	if withRender {
		fs.StringVar(&f.missing, FlagMissing, "", "")
		fs.BoolVar(&f.verbose, FlagVerbose, false, "")
		fs.BoolVar(&f.verbose, FlagVerboseShort, false, "")
	}
}

// settings layers environment, settings file and explicitly set flags
func (f *engineFlags) settings(fs *flag.FlagSet) (formatic.Settings, error) {
	settings, err := formatic.LoadSettingsEnv()
	if err != nil {
		return settings, err
	}
	if f.settingsPath != "" {
		if settings, err = settings.WithFile(f.settingsPath); err != nil {
			return settings, err
		}
	}

	var flagErr error
	fs.Visit(func(fl *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch fl.Name {
		case FlagConvertLiterals:
			settings.ConvertLiterals = f.convertLiterals
		case FlagEscapeChar:
			if utf8.RuneCountInString(f.escapeChar) != 1 {
				flagErr = errors.New(ErrMsgEscapeCharLength)
				return
			}
			settings.EscapeChar, _ = utf8.DecodeRuneInString(f.escapeChar)
		case FlagMissing:
			settings.MissingSelectorAction, flagErr = formatic.ParseMissingSelectorAction(f.missing)
		}
	})
	if flagErr != nil {
		return settings, flagErr
	}
	return settings, settings.Validate()
}

// newEngine builds an engine from the layered settings
func (f *engineFlags) newEngine(fs *flag.FlagSet, stderr io.Writer) (*formatic.Engine, error) {
	settings, err := f.settings(fs)
	if err != nil {
		return nil, err
	}

	opts := []formatic.Option{formatic.WithSettings(settings)}
	if f.verbose {
		opts = append(opts, formatic.WithLogger(newStderrLogger(stderr)))
	}
	return formatic.New(opts...)
}

// newStderrLogger writes debug-level console logs to stderr
func newStderrLogger(stderr io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
