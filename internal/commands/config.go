/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"goscreenwriter/internal/config"
)

// ConfigShowAction prints the merged config as YAML followed by a comment
// line for every value taken from the environment.
func ConfigShowAction(c *cli.Context) error {
	r, err := setup(c, "config-show")
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(r.cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	w := c.App.Writer
	if _, err := w.Write(data); err != nil {
		return err
	}
	for _, key := range config.OverridableKeys() {
		if env, ok := config.EnvOverrideFor(key); ok {
			if _, err := fmt.Fprintf(w, "# %s overridden by %s\n", key, env); err != nil {
				return err
			}
		}
	}
	return nil
}

// ConfigInitAction writes the default config. An existing file is kept
// unless --force is given.
func ConfigInitAction(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config %s: %w", path, err)
	}
	if err := config.SaveTo(path, config.Defaults()); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	_, err := fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return err
}
