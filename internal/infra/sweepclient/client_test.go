//go:build !gcloud

package sweepclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

func TestClient_SubmitSweep(t *testing.T) {
	var gotPlan taskgen.SweepPlan
	var gotRequestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/sweep" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		gotRequestID = r.Header.Get(logging.RequestIDHeader)
		if err := json.NewDecoder(r.Body).Decode(&gotPlan); err != nil {
			t.Errorf("decode plan: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(domain.SweepReceipt{RunID: "run-9", Enqueued: 4})
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	plan := taskgen.SweepPlan{
		Base:     domain.RandSetup{NumTasks: 3, PeriodMin: 10, PeriodMax: 20, DeadlineAvg: 1},
		NumTasks: []int{3, 4},
		Runs:     2,
		Seed:     7,
	}

	receipt, err := client.SubmitSweep(context.Background(), plan)
	if err != nil {
		t.Fatalf("SubmitSweep() error = %v", err)
	}

	if receipt.RunID != "run-9" || receipt.Enqueued != 4 {
		t.Errorf("receipt = %+v", receipt)
	}
	if gotPlan.Runs != 2 || gotPlan.Seed != 7 || len(gotPlan.NumTasks) != 2 {
		t.Errorf("plan sent = %+v", gotPlan)
	}
	if gotRequestID == "" {
		t.Error("request ID header not set")
	}
}

func TestClient_SubmitSweepRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.SubmitSweep(context.Background(), taskgen.SweepPlan{}); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestClient_GetAnalysis(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantNumSel  int
		wantAnyFail bool
	}{
		{
			name:       "found",
			status:     http.StatusOK,
			body:       `{"fingerprint":"abc","num_points":5,"num_sel":3}`,
			wantNumSel: 3,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			wantErr: domain.ErrAnalysisNotFound,
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			wantAnyFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/analyze/abc" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(context.Background(), srv.URL)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}

			result, err := client.GetAnalysis(context.Background(), "abc")

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantAnyFail:
				if err == nil {
					t.Fatal("expected error")
				}
			default:
				if err != nil {
					t.Fatalf("GetAnalysis() error = %v", err)
				}
				if result.NumSel != tt.wantNumSel {
					t.Errorf("NumSel = %d, want %d", result.NumSel, tt.wantNumSel)
				}
			}
		})
	}
}
