/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// lastJSON parses the last non-empty line of b as a JSON log record.
func lastJSON(t *testing.T, b []byte) map[string]any {
	t.Helper()
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log %q: %v", last, err)
	}
	return m
}

func TestNewJSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := WithOperation(New(Options{Level: "debug", Format: "json", Writer: &buf}).With(slog.String("component", "cli")), "paginate")
	l.DebugContext(ContextWithInput(context.Background(), "-"), "paginated", slog.Int("pages", 2), slog.Float64("height_in", 9))

	m := lastJSON(t, buf.Bytes())
	if m["app"] != "goscreenwriter" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "cli" || m["op"] != "paginate" || m["input"] != "-" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
	if m["pages"] != float64(2) || m["height_in"] != float64(9) {
		t.Fatalf("record attrs mismatch: %v", m)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Writer: &buf})
	l.Info("dropped")
	l.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "WRN kept") {
		t.Fatalf("level filtering failed: %q", out)
	}
}

// TestInitFromEnvWritesRotatedFile drives Init through the GSW_* variables and
// checks that the file sink receives JSON while the console stays pretty.
func TestInitFromEnvWritesRotatedFile(t *testing.T) {
	// system temp dir rather than t.TempDir: the rotating writer keeps the file open
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("gsw_log_%d.json", time.Now().UnixNano()))
	t.Cleanup(func() { _ = os.Remove(fpath) })
	t.Setenv("GSW_LOG_LEVEL", "debug")
	t.Setenv("GSW_LOG_FORMAT", "console")
	t.Setenv("GSW_LOG_SOURCE", "")
	t.Setenv("GSW_LOG_FILE", fpath)

	var console bytes.Buffer
	opts := FromEnv()
	opts.Writer = &console
	Init(opts)
	t.Cleanup(func() { Init(Options{Writer: os.Stderr}) })

	WithOperation(WithComponent("pager"), "paginate").Debug("line taller than page", slog.Int("rows", 100))
	time.Sleep(50 * time.Millisecond)

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSON(t, b)
	if m["msg"] != "line taller than page" || m["component"] != "pager" || m["op"] != "paginate" {
		t.Fatalf("file record mismatch: %v", m)
	}
	if !strings.Contains(console.String(), "DBG line taller than page") || !strings.Contains(console.String(), "rows=100") {
		t.Fatalf("console record mismatch: %q", console.String())
	}
	if L() == nil || slog.Default().Handler() == nil {
		t.Fatalf("Init did not install a default logger")
	}
}
