package tsreader

import (
	"errors"
	"strings"
	"testing"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

func TestReadText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTasks []domain.Task
		wantEps   float64
		wantErr   error
	}{
		{
			name:      "single task",
			input:     "1,1e-6\n4,3\n",
			wantTasks: []domain.Task{domain.NewTask(4, 3, 0)},
			wantEps:   1e-6,
		},
		{
			name: "comments, blank lines and mixed separators",
			input: `# two tasks
2 1e-6

4, 4        # first
6	6	1
`,
			wantTasks: []domain.Task{domain.NewTask(4, 4, 0), domain.NewTask(6, 6, 1)},
			wantEps:   1e-6,
		},
		{
			name:    "empty stream",
			input:   "  \n# nothing\n",
			wantErr: domain.ErrInvalidTaskStream,
		},
		{
			name:    "empty task set",
			input:   "0,1e-6\n",
			wantErr: domain.ErrInvalidTask,
		},
		{
			name:    "task count mismatch",
			input:   "2,1e-6\n4,3\n",
			wantErr: domain.ErrInvalidTaskStream,
		},
		{
			name:    "malformed number",
			input:   "1,1e-6\nfour,3\n",
			wantErr: domain.ErrInvalidTaskStream,
		},
		{
			name:    "too many fields",
			input:   "1,1e-6\n4,3,0,9\n",
			wantErr: domain.ErrInvalidTaskStream,
		},
		{
			name:    "invalid task parameters",
			input:   "1,1e-6\n4,0\n",
			wantErr: domain.ErrInvalidTask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := ReadText(strings.NewReader(tt.input), domain.DefaultHyperperiodPolicy())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if ts.Eps() != tt.wantEps {
				t.Errorf("expected eps %v, got %v", tt.wantEps, ts.Eps())
			}
			got := ts.Tasks()
			if len(got) != len(tt.wantTasks) {
				t.Fatalf("expected %d tasks, got %d", len(tt.wantTasks), len(got))
			}
			for i := range got {
				if got[i] != tt.wantTasks[i] {
					t.Errorf("task %d: expected %+v, got %+v", i, tt.wantTasks[i], got[i])
				}
			}
		})
	}
}

func TestReadText_ErrorNamesLine(t *testing.T) {
	_, err := ReadText(strings.NewReader("2,1e-6\n4,3\n\nx,1\n"), domain.DefaultHyperperiodPolicy())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("expected error to name line 4, got %q", err.Error())
	}
}
