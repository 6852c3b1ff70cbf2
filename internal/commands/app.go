/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package commands holds the urfave/cli actions behind the goscreenwriter
// binary.
package commands

import (
	"github.com/urfave/cli/v2"

	"goscreenwriter/internal/version"
)

// NewApp builds the command tree. Output goes to app.Writer, logs to
// app.ErrWriter and stdin input comes from app.Reader, so tests can swap
// all three.
func NewApp() *cli.App {
	layoutFlags := []cli.Flag{
		&cli.StringFlag{Name: "preset", Usage: "page preset (letter, a4)"},
		&cli.StringFlag{Name: "measurer", Usage: "text measurer (columns, courier-pdf, basicfont, ttf)"},
	}
	return &cli.App{
		Name:    "goscreenwriter",
		Usage:   "classify and paginate screenplay text",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load config from `FILE`"},
			&cli.StringFlag{Name: "log-level", Usage: "override the configured log level"},
		},
		Commands: []*cli.Command{
			{
				Name:      "classify",
				Usage:     "print the kind of every line",
				ArgsUsage: "[FILE|-]...",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: 4, Usage: "files classified in parallel"},
				},
				Action: ClassifyAction,
			},
			{
				Name:      "paginate",
				Usage:     "print a paged preview",
				ArgsUsage: "[FILE|-]",
				Flags:     layoutFlags,
				Action:    PaginateAction,
			},
			{
				Name:      "text",
				Usage:     "print the normalized text without pagination",
				ArgsUsage: "[FILE|-]",
				Action:    TextAction,
			},
			{
				Name:  "config",
				Usage: "inspect or create the config file",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print the effective config and its env overrides",
						Action: ConfigShowAction,
					},
					{
						Name:  "init",
						Usage: "write the default config to --config or the per-user path",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
						},
						Action: ConfigInitAction,
					},
				},
			},
			{
				Name:   "presets",
				Usage:  "list page presets and their geometry",
				Action: PresetsAction,
			},
			{
				Name:   "version",
				Usage:  "print the version",
				Action: VersionAction,
			},
		},
	}
}
