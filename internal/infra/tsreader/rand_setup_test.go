package tsreader

import (
	"errors"
	"strings"
	"testing"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

func TestReadRandSetup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.RandSetup
		wantErr bool
	}{
		{
			name:  "valid setup with trailing newline",
			input: "12345,4,2,20,0,0.8,0.2,1e-6\n",
			want: domain.RandSetup{
				Seed:               12345,
				NumTasks:           4,
				PeriodDistribution: domain.PeriodUniform,
				PeriodMin:          2,
				PeriodMax:          20,
				Phasing:            false,
				DeadlineAvg:        0.8,
				DeadlineVar:        0.2,
				Eps:                1e-6,
			},
		},
		{
			name:  "phasing on and spaces around fields",
			input: "7, 3, 2, 200, 1, 1, 0.4, 0.000001",
			want: domain.RandSetup{
				Seed:               7,
				NumTasks:           3,
				PeriodDistribution: domain.PeriodUniform,
				PeriodMin:          2,
				PeriodMax:          200,
				Phasing:            true,
				DeadlineAvg:        1,
				DeadlineVar:        0.4,
				Eps:                0.000001,
			},
		},
		{
			name:    "too few fields",
			input:   "7,3,2,200,1,1,0.4",
			wantErr: true,
		},
		{
			name:    "malformed seed",
			input:   "-7,3,2,200,1,1,0.4,1e-6",
			wantErr: true,
		},
		{
			name:    "inverted period bounds",
			input:   "7,3,20,2,1,1,0.4,1e-6",
			wantErr: true,
		},
		{
			name:    "zero tasks",
			input:   "7,0,2,20,1,1,0.4,1e-6",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadRandSetup(strings.NewReader(tt.input))

			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidRandSetup) {
					t.Fatalf("expected ErrInvalidRandSetup, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
