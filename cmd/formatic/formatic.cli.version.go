package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

// versionsFilePaths are searched in order for versions.yaml
var versionsFilePaths = []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	info := getVersionInfo(versionsFilePaths)

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// getVersionInfo reads the first parseable versions.yaml from paths
func getVersionInfo(paths []string) versionOutput {
	info := versionOutput{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		if vy.Project.Version != "" {
			info.Version = vy.Project.Version
		}
		if vy.Git.Commit != "" {
			info.Commit = vy.Git.Commit
		}
		if vy.Git.Branch != "" {
			info.Branch = vy.Git.Branch
		}
		if vy.Build.Time != "" {
			info.BuildTime = vy.Build.Time
		}
		if vy.Build.GoVersion != "" {
			info.GoVersion = vy.Build.GoVersion
		}
		break
	}

	return info
}
