package deploy

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/sendtoftrack/internal/config"
	"github.com/steveyegge/sendtoftrack/internal/constants"
	"github.com/steveyegge/sendtoftrack/internal/dirsync"
	"github.com/steveyegge/sendtoftrack/internal/relaunch"
	"github.com/steveyegge/sendtoftrack/internal/style"
	"github.com/steveyegge/sendtoftrack/internal/testutil"
)

func init() {
	style.SetColor(false)
}

type fakeTable struct {
	pids     []int
	paths    map[int]string
	killErrs map[int]error
	killed   []int
}

func (f *fakeTable) Find(string) ([]int, error) { return f.pids, nil }

func (f *fakeTable) ExePath(pid int) (string, error) {
	if p, ok := f.paths[pid]; ok {
		return p, nil
	}
	return "", errors.New("access denied")
}

func (f *fakeTable) Kill(pid int) error {
	if err := f.killErrs[pid]; err != nil {
		return err
	}
	f.killed = append(f.killed, pid)
	return nil
}

type launch struct{ path, dir string }

type fakeLauncher struct {
	calls []launch
	err   error
}

func (l *fakeLauncher) Start(path, dir string) error {
	l.calls = append(l.calls, launch{path, dir})
	return l.err
}

type recordingNotifier struct {
	messages []string
	waits    int
}

func (n *recordingNotifier) Notify(msg string) { n.messages = append(n.messages, msg) }

func (n *recordingNotifier) WaitForKey() error {
	n.waits++
	return nil
}

type harness struct {
	fixture  *testutil.BundleFixture
	table    *fakeTable
	launcher *fakeLauncher
	notifier *recordingNotifier
	out      *bytes.Buffer
	runner   *Runner
}

func newHarness(t *testing.T, table *fakeTable) *harness {
	t.Helper()
	f := testutil.NewBundleFixture(t, testutil.PluginBundle)
	cfg := config.Defaults(f.Root, filepath.Join(f.Root, "home"))
	require.Equal(t, f.Source, cfg.Source)
	require.Equal(t, f.Dest, cfg.Dest)

	h := &harness{
		fixture:  f,
		table:    table,
		launcher: &fakeLauncher{},
		notifier: &recordingNotifier{},
		out:      &bytes.Buffer{},
	}
	h.runner = &Runner{
		Config:   cfg,
		Table:    table,
		Launcher: h.launcher,
		Notifier: h.notifier,
		Out:      h.out,
	}
	return h
}

var appPath = filepath.Join("opt", "ftrack", "ftrack_connect_package")

func TestRun_NothingRunning(t *testing.T) {
	h := newHarness(t, &fakeTable{})

	got := h.runner.Run()

	assert.False(t, got.Report.Failed())
	assert.Empty(t, got.Report.Path)
	assert.Equal(t, relaunch.StartManually, got.Decision.Action)
	assert.Empty(t, h.launcher.calls)
	assert.Equal(t, []string{constants.MsgStartManually, constants.MsgPressAnyKey}, h.notifier.messages)
	assert.Equal(t, 1, h.notifier.waits)

	// The copy still happens
	assert.Equal(t, testutil.PluginBundle, testutil.ReadTree(t, h.fixture.Dest))
}

func TestRun_RelaunchesCapturedPath(t *testing.T) {
	table := &fakeTable{pids: []int{7}, paths: map[int]string{7: appPath}}
	h := newHarness(t, table)

	got := h.runner.Run()

	assert.Equal(t, []int{7}, table.killed)
	require.Len(t, h.launcher.calls, 1)
	assert.Equal(t, launch{path: appPath, dir: filepath.Dir(appPath)}, h.launcher.calls[0])
	assert.True(t, got.Launched)
	assert.Empty(t, h.notifier.messages)
	assert.Zero(t, h.notifier.waits)
	assert.Contains(t, h.out.String(), constants.MsgClosing)
	assert.Contains(t, h.out.String(), constants.MsgRestarting)
}

func TestRun_TerminationFailureNeverRelaunches(t *testing.T) {
	tests := []struct {
		name  string
		table *fakeTable
		sync  SyncFunc
	}{
		{
			name:  "kill rejected",
			table: &fakeTable{pids: []int{7}, paths: map[int]string{7: appPath}, killErrs: map[int]error{7: errors.New("denied")}},
		},
		{
			name:  "path unreadable",
			table: &fakeTable{pids: []int{7}},
		},
		{
			name:  "second of two fails, copy fails too",
			table: &fakeTable{pids: []int{7, 8}, paths: map[int]string{7: appPath}},
			sync: func(string, string, dirsync.Options) (dirsync.Result, error) {
				return dirsync.Result{}, errors.New("disk full")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.table)
			h.runner.Sync = tt.sync

			got := h.runner.Run()

			assert.True(t, got.Report.Failed())
			assert.Equal(t, relaunch.RestartManually, got.Decision.Action)
			assert.Empty(t, h.launcher.calls)
			assert.Equal(t, []string{constants.MsgRestartFailed, constants.MsgPressAnyKey}, h.notifier.messages)
			assert.Equal(t, 1, h.notifier.waits)
		})
	}
}

func TestRun_MissingSourceStillRelaunches(t *testing.T) {
	table := &fakeTable{pids: []int{7}, paths: map[int]string{7: appPath}}
	h := newHarness(t, table)
	h.runner.Config.Source = filepath.Join(h.fixture.Root, "missing")

	got := h.runner.Run()

	assert.True(t, got.Sync.SourceMissing)
	assert.NoError(t, got.SyncErr)
	assert.Empty(t, testutil.ReadTree(t, h.fixture.Dest))
	assert.Contains(t, h.out.String(), constants.MsgSourceMissing)
	assert.Len(t, h.launcher.calls, 1)
}

func TestRun_CopyCollisionIsReportedAndRunContinues(t *testing.T) {
	table := &fakeTable{pids: []int{7}, paths: map[int]string{7: appPath}}
	h := newHarness(t, table)
	testutil.WriteTree(t, h.fixture.Dest, map[string]string{"README.txt": "installed"})

	got := h.runner.Run()

	require.Error(t, got.SyncErr)
	assert.Contains(t, h.out.String(), "Copy failed")
	assert.Contains(t, h.out.String(), "--overwrite")
	assert.Equal(t, "installed", testutil.ReadTree(t, h.fixture.Dest)["README.txt"])
	assert.Len(t, h.launcher.calls, 1, "a copy failure does not gate the relaunch")
}

func TestRun_SecondRunWithDefaultPolicyFailsDeterministically(t *testing.T) {
	h := newHarness(t, &fakeTable{})
	h.runner.Config.WaitForKey = false

	first := h.runner.Run()
	require.NoError(t, first.SyncErr)
	before := testutil.ReadTree(t, h.fixture.Dest)

	second := h.runner.Run()
	require.Error(t, second.SyncErr)
	assert.Contains(t, second.SyncErr.Error(), "README.txt", "files are copied before subdirectories, in lexical order")
	assert.Equal(t, before, testutil.ReadTree(t, h.fixture.Dest))
}

func TestRun_LaunchFailureFallsBackToManualStart(t *testing.T) {
	table := &fakeTable{pids: []int{7}, paths: map[int]string{7: appPath}}
	h := newHarness(t, table)
	h.launcher.err = errors.New("exec format error")

	got := h.runner.Run()

	assert.False(t, got.Launched)
	assert.Error(t, got.LaunchErr)
	assert.Equal(t, []string{constants.MsgStartManually, constants.MsgPressAnyKey}, h.notifier.messages)
}

func TestRun_NoWait(t *testing.T) {
	h := newHarness(t, &fakeTable{})
	h.runner.Config.WaitForKey = false

	h.runner.Run()

	assert.Equal(t, []string{constants.MsgStartManually}, h.notifier.messages)
	assert.Zero(t, h.notifier.waits)
}

func TestRun_MultipleInstancesWarns(t *testing.T) {
	second := filepath.Join("opt", "ftrack2", "ftrack_connect_package")
	table := &fakeTable{pids: []int{7, 8}, paths: map[int]string{7: appPath, 8: second}}
	h := newHarness(t, table)

	got := h.runner.Run()

	assert.True(t, got.Report.Multiple())
	assert.Contains(t, h.out.String(), "2 instances")
	require.Len(t, h.launcher.calls, 1)
	assert.Equal(t, second, h.launcher.calls[0].path)
}

func TestRun_DryRun(t *testing.T) {
	table := &fakeTable{pids: []int{7}, paths: map[int]string{7: appPath}}
	h := newHarness(t, table)
	h.runner.DryRun = true

	got := h.runner.Run()

	assert.Empty(t, table.killed)
	assert.Empty(t, h.launcher.calls)
	assert.Empty(t, testutil.ReadTree(t, h.fixture.Dest))
	assert.Equal(t, len(testutil.PluginBundle), got.Sync.FilesCopied)
	assert.Contains(t, h.out.String(), "Would copy")
	assert.Contains(t, h.out.String(), "Would start")
}

func TestRun_ProgressLines(t *testing.T) {
	h := newHarness(t, &fakeTable{})
	h.runner.Config.WaitForKey = false

	h.runner.Run()

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, constants.MsgCopying, lines[0])
	assert.Equal(t, "Copying "+h.fixture.Source, lines[1])
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "2.0 MB", formatSize(2*1024*1024))
}
