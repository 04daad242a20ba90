package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"cpuspecs/internal/app"
	"cpuspecs/internal/cpuid"
	"cpuspecs/internal/specs"
	"cpuspecs/internal/util"

	"github.com/spf13/cobra"
)

// LocalSourceName names the profile decoded from the processor running the command
const LocalSourceName = "local"

// EnvReplay supplies the default value of the replay flag
const EnvReplay = "CPUSPECS_REPLAY"

const FlagReplayName = "replay"

var FlagReplay []string

// Source is where the CPUID values of one profile come from
type Source struct {
	Name    string
	Path    string // the dump file, empty for the local processor
	Backend cpuid.Backend
}

// Detector returns a detector over the source's backend
func (s Source) Detector() *specs.Detector {
	return specs.NewBackendDetector(s.Backend)
}

// AddSourceFlags adds the flags that select the profile source(s)
func AddSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&FlagReplay, FlagReplayName, defaultReplay(), "")
}

func defaultReplay() []string {
	value := strings.TrimSpace(os.Getenv(EnvReplay))
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// GetSourceFlagGroup returns the help for the source flags
func GetSourceFlagGroup() app.FlagGroup {
	return app.FlagGroup{
		GroupName: "Source Options",
		Flags: []app.Flag{
			{
				Name: FlagReplayName,
				Help: fmt.Sprintf("decode recorded CPUID dump file(s) instead of the local processor, may be repeated (env: %s)", EnvReplay),
			},
		},
	}
}

// ValidateSourceFlags confirms that every replay file exists
func ValidateSourceFlags(cmd *cobra.Command) error {
	for _, path := range FlagReplay {
		absPath, err := util.AbsPath(path)
		if err != nil {
			return FlagValidationError(cmd, fmt.Sprintf("failed to expand replay path %s: %v", path, err))
		}
		exists, err := util.FileExists(absPath)
		if err != nil {
			return FlagValidationError(cmd, fmt.Sprintf("replay path %s: %v", path, err))
		}
		if !exists {
			return FlagValidationError(cmd, fmt.Sprintf("replay file %s does not exist", path))
		}
	}
	return nil
}

// Sources returns the sources selected by the flags, the local processor when no
// dump was given
func Sources() ([]Source, error) {
	if len(FlagReplay) == 0 {
		return []Source{LocalSource()}, nil
	}
	return SourcesFromPaths(FlagReplay)
}

// LocalSource returns the source backed by the CPUID instruction
func LocalSource() Source {
	return Source{Name: LocalSourceName, Backend: cpuid.Hardware{}}
}

// SourcesFromPaths loads a recorded dump per path. Sources are named after the
// file, with a numeric suffix when two files share a name.
func SourcesFromPaths(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	names := []string{}
	for _, path := range paths {
		absPath, err := util.AbsPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand replay path %s: %w", path, err)
		}
		script, err := cpuid.LoadScript(absPath)
		if err != nil {
			return nil, err
		}
		base := util.BaseNameWithoutExt(absPath)
		name := base
		for i := 2; slices.Contains(names, name); i++ {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		names = append(names, name)
		slog.Debug("loaded cpuid dump", slog.String("source", name), slog.String("path", absPath), slog.Int("leaves", script.Len()))
		sources = append(sources, Source{Name: name, Path: absPath, Backend: script})
	}
	return sources, nil
}

// LoadProfile decodes the profile of the first selected source
func LoadProfile() (specs.Profile, Source, error) {
	sources, err := Sources()
	if err != nil {
		return specs.Profile{}, Source{}, err
	}
	if len(sources) > 1 {
		slog.Warn("more than one source given, using the first", slog.String("source", sources[0].Name))
	}
	return sources[0].Detector().Profile(), sources[0], nil
}
