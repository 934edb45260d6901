package chatops

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trainwatch/trainwatch/internal/core"
	"github.com/trainwatch/trainwatch/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "trainwatch.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantAction string
		wantArgs   []string
		wantErr    bool
	}{
		{"prefixed status", "trainwatch status", "status", nil, false},
		{"slash prefix", "/trainwatch runs", "runs", nil, false},
		{"bang prefix", "!trainwatch log run-1", "log", []string{"run-1"}, false},
		{"bare action", "status", "status", nil, false},
		{"bare log with arg", "log run-1", "log", []string{"run-1"}, false},
		{"empty", "", "", nil, true},
		{"prefix without action", "trainwatch", "", nil, true},
		{"unknown word", "deploy now", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", cmd)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand failed: %v", err)
			}
			if cmd.Action != tt.wantAction {
				t.Errorf("action = %q, want %q", cmd.Action, tt.wantAction)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Errorf("args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestExecuteStatusAndRuns(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	done := core.NewRun("mnist")
	if err := core.Transition(done, core.PhaseTraining); err != nil {
		t.Fatal(err)
	}
	if err := core.Transition(done, core.PhaseCompleted); err != nil {
		t.Fatal(err)
	}
	active := core.NewRun("cifar")
	if err := core.Transition(active, core.PhaseTraining); err != nil {
		t.Fatal(err)
	}
	for _, r := range []*core.Run{done, active} {
		if err := db.SaveRun(r); err != nil {
			t.Fatal(err)
		}
	}

	out, err := Execute(&Command{Action: "status"}, db)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "2 total") || !strings.Contains(out, "completed: 1") || !strings.Contains(out, "training: 1") {
		t.Errorf("status output = %q", out)
	}

	out, err = Execute(&Command{Action: "runs"}, db)
	if err != nil {
		t.Fatalf("runs failed: %v", err)
	}
	if !strings.Contains(out, "mnist") || !strings.Contains(out, "cifar") {
		t.Errorf("runs output = %q", out)
	}
}

func TestExecuteLog(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	run := core.NewRun("mnist")
	if err := db.SaveRun(run); err != nil {
		t.Fatal(err)
	}
	if err := db.AppendNotification(run.ID, "slack", "started", "sent"); err != nil {
		t.Fatal(err)
	}

	out, err := Execute(&Command{Action: "log", Args: []string{run.ID}}, db)
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if !strings.Contains(out, "started") || !strings.Contains(out, "slack/sent") {
		t.Errorf("log output = %q", out)
	}

	if _, err := Execute(&Command{Action: "log", Args: []string{"missing"}}, db); err == nil {
		t.Error("expected error for unknown run id")
	}
	if _, err := Execute(&Command{Action: "log"}, db); err == nil {
		t.Error("expected error for missing run id argument")
	}
}

func TestExecuteEmptyDB(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	out, err := Execute(&Command{Action: "status"}, db)
	if err != nil {
		t.Fatal(err)
	}
	if out != "No runs found." {
		t.Errorf("status on empty db = %q", out)
	}
}

func TestHandleSlack(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	h := NewHandler(db)

	form := url.Values{}
	form.Set("command", "/trainwatch")
	form.Set("text", "status")

	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.HandleSlack(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "No runs found.") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleSlackUnknownCommand(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	h := NewHandler(db)

	form := url.Values{}
	form.Set("text", "deploy everything")

	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.HandleSlack(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unknown command") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
