/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecoverWritesReportAndExits(t *testing.T) {
	root := t.TempDir()

	oldExit := exitFn
	exitCode := -1
	exitFn = func(code int) { exitCode = code }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover(root)
		panic("boom for testing")
	}()

	if exitCode != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode)
	}

	entries, err := os.ReadDir(filepath.Join(root, ".andi"))
	if err != nil {
		t.Fatalf("read .andi dir: %v", err)
	}
	var report string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log") {
			report = filepath.Join(root, ".andi", e.Name())
		}
	}
	if report == "" {
		t.Fatalf("no crash report written: %v", entries)
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read crash report: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "storybuild Crash Report") {
		t.Fatalf("missing report header: %s", s)
	}
	if !strings.Contains(s, "boom for testing") {
		t.Fatalf("missing panic value: %s", s)
	}
	if !strings.Contains(s, "Stack:") {
		t.Fatalf("missing stack trace: %s", s)
	}
}

func TestRecoverNoPanicIsNoop(t *testing.T) {
	oldExit := exitFn
	called := false
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover("")
	}()

	if called {
		t.Fatalf("Recover exited without a panic")
	}
}

func TestWriteReportFallsBackToTempDir(t *testing.T) {
	path, err := writeReport("", "value", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	if filepath.Dir(path) != filepath.Clean(os.TempDir()) {
		t.Fatalf("report dir = %s, want temp dir", filepath.Dir(path))
	}
}
