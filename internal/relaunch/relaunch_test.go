package relaunch

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/steveyegge/sendtoftrack/internal/proc"
	"github.com/steveyegge/sendtoftrack/internal/testutil"
)

func TestDecide(t *testing.T) {
	app := filepath.Join("opt", "ftrack", "ftrack_connect_package")

	tests := []struct {
		name     string
		report   proc.Report
		want     Action
		wantPath string
		wantDir  string
	}{
		{
			name:   "nothing running",
			report: proc.Reduce("ftrack_connect_package", nil),
			want:   StartManually,
		},
		{
			name: "stopped with path",
			report: proc.Reduce("ftrack_connect_package", []proc.Result{
				{Process: proc.Process{PID: 1, Path: app}},
			}),
			want:     Relaunch,
			wantPath: app,
			wantDir:  filepath.Join("opt", "ftrack"),
		},
		{
			name: "kill failed",
			report: proc.Reduce("ftrack_connect_package", []proc.Result{
				{Process: proc.Process{PID: 1, Path: app}, Step: proc.StepKill, Err: errors.New("denied")},
			}),
			want: RestartManually,
		},
		{
			name: "one of two failed",
			report: proc.Reduce("ftrack_connect_package", []proc.Result{
				{Process: proc.Process{PID: 1, Path: app}},
				{Process: proc.Process{PID: 2}, Step: proc.StepPath, Err: errors.New("denied")},
			}),
			want: RestartManually,
		},
		{
			name: "lookup failed",
			report: proc.Reduce("ftrack_connect_package", []proc.Result{
				{Step: proc.StepLookup, Err: errors.New("no ps")},
			}),
			want: RestartManually,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.report)
			if got.Action != tt.want {
				t.Errorf("Action = %v, want %v", got.Action, tt.want)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Dir != tt.wantDir {
				t.Errorf("Dir = %q, want %q", got.Dir, tt.wantDir)
			}
		})
	}
}

func TestAction_String(t *testing.T) {
	if Relaunch.String() != "relaunch" || StartManually.String() != "start-manually" || RestartManually.String() != "restart-manually" {
		t.Error("unexpected Action names")
	}
}

func TestExecLauncher_StartMissingBinary(t *testing.T) {
	dir := t.TempDir()
	err := ExecLauncher{}.Start(filepath.Join(dir, "does-not-exist"), dir)
	if err == nil {
		t.Fatal("Start() should fail for a missing executable")
	}
}

func TestExecLauncher_StartSetsWorkingDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "app.sh")
	body := "#!" + sh + "\npwd > started.txt\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := (ExecLauncher{}).Start(script, dir); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	marker := filepath.Join(dir, "started.txt")
	started := testutil.WaitFor(t, 5*time.Second, func() bool {
		data, err := os.ReadFile(marker)
		return err == nil && len(data) > 0
	})
	if !started {
		t.Fatal("launched process did not write its marker")
	}

	data, _ := os.ReadFile(marker)
	got, _ := filepath.EvalSymlinks(string(trimNewline(data)))
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("child working dir = %q, want %q", got, want)
	}
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
