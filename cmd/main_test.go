package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestInputCmd(t *testing.T) {
	out, err := execute(t, "2,1e-6\n4,4\n6,6\n", "input")
	if err != nil {
		t.Fatalf("input error = %v", err)
	}

	for _, want := range []string{
		"1*C0 + 0*C1 <= 4",
		"1*C0 + 1*C1 <= 6",
		"3*C0 + 2*C1 <= 12",
		"Utilization bound: 0.5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Points:") {
		t.Error("points printed without -v")
	}
}

func TestInputCmd_VerboseYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.yaml")
	content := "eps: 1e-6\ntasks:\n  - period: 4\n    deadline: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write task set: %v", err)
	}

	out, err := execute(t, "", "input", "--file", path, "-v")
	if err != nil {
		t.Fatalf("input error = %v", err)
	}

	for _, want := range []string{"Task set: 1 tasks", "Hyperperiod: 4", "Points: 1", "1*C0 <= 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInputCmd_InvalidStream(t *testing.T) {
	_, err := execute(t, "2,1e-6\n4,4\n", "input")
	if !errors.Is(err, domain.ErrInvalidTaskStream) {
		t.Fatalf("error = %v, want ErrInvalidTaskStream", err)
	}
}

func TestSeedCmd(t *testing.T) {
	out, err := execute(t, "7,3,2,10,0,0.9,0.1,1e-6\n", "seed")
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}

	for _, want := range []string{"All points: ", "Iff points: ", "Time points: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSweepCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.csv")

	_, err := execute(t, "", "sweep",
		"--out", path,
		"--num-tasks", "2",
		"--dl-avg", "0.8",
		"--dl-var", "0.1",
		"--per-max", "8",
		"--runs", "3",
		"--workers", "2",
	)
	if err != nil {
		t.Fatalf("sweep error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv has %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "seed,num_tasks") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestSweepCmd_Stdout(t *testing.T) {
	out, err := execute(t, "", "sweep",
		"--out", "-",
		"--num-tasks", "2",
		"--dl-avg", "0.8",
		"--dl-var", "0.1",
		"--per-max", "8",
		"--runs", "2",
	)
	if err != nil {
		t.Fatalf("sweep error = %v", err)
	}

	if !strings.Contains(out, "seed,num_tasks") {
		t.Errorf("csv header not written to the command output:\n%s", out)
	}
	rows := 0
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.HasPrefix(line, "seed,") || strings.HasPrefix(line, "Runs:") {
			continue
		}
		rows++
	}
	if rows != 2 {
		t.Errorf("got %d csv rows, want 2:\n%s", rows, out)
	}
}
