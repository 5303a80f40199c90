package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoclist/internal/commands"
	"todoclist/internal/config"
	"todoclist/internal/exitcode"
	"todoclist/internal/logging"
	"todoclist/internal/service"
	"todoclist/internal/testutil"
)

var (
	created = time.Date(2026, time.October, 18, 15, 4, 5, 0, time.UTC)
	now     = time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
)

type runOpts struct {
	quiet    bool
	autoInit bool
}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, opts runOpts) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := config.Default()
	cfg.Quiet = opts.quiet
	cfg.AutoInit = opts.autoInit
	cfg.NoColor = true
	cfg.Now = func() time.Time { return now }
	cfg.Location = time.UTC
	cfg.Logger = logging.Discard()
	require.NoError(t, cfg.FinalizeIn(t.TempDir()))

	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func threeTasks() *testutil.FakeService {
	svc := testutil.NewInitializedFakeService()
	svc.AddTask("buy milk", created)
	svc.AddTask("call mum", created.Add(time.Hour))
	svc.AddTask("water plants", created.Add(2*time.Hour))
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "todoclist 0.1.0\n", stdout)
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Usage:")
	for _, want := range []string{
		"todoclist init",
		"todoclist add <description...>",
		"todoclist list [--all] (alias: ls)",
		"todoclist complete <id> (alias: done)",
		"todoclist delete <id> (alias: rm)",
		"--auto-init",
		"--path <dir>",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestHelpText_CustomRegistry(t *testing.T) {
	r := commands.NewRegistry()
	require.NoError(t, r.Register(&commands.VersionCmd{}))

	text := commands.HelpText(r)
	assert.Contains(t, text, "todoclist version")
	assert.NotContains(t, text, "todoclist add")
}

// Tests for init command
func TestInitCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.InitCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Initialized new todolist at /fake/todoclist.json\n", stdout)
	assert.True(t, svc.Initialized())
	assert.Empty(t, svc.Tasks())
	assert.Equal(t, 1, svc.Locks)
	assert.Equal(t, 1, svc.Unlocks)
}

func TestInitCommand_AlreadyExists(t *testing.T) {
	svc := threeTasks()

	stdout, stderr, code := runCommand(t, &commands.InitCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.UserError, code)
	assert.Empty(t, stdout)
	assert.Regexp(t, `^error: todoclist\.json already exists at /.+\n$`, stderr)
	assert.Len(t, svc.Tasks(), 3, "existing list must be untouched")
	assert.Zero(t, svc.Locks, "existing list is reported before locking")
}

func TestInitCommand_UnexpectedArgument(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.InitCmd{}, svc, []string{"now"}, runOpts{})

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unexpected argument: now\n", stderr)
	assert.False(t, svc.Initialized())
}

func TestInitCommand_Locked(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LockErr = fmt.Errorf("%w: /fake/todoclist.json.lock", service.ErrLocked)

	stdout, stderr, code := runCommand(t, &commands.InitCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.StorageError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "error: todoclist.json is being modified by another process, try again\n", stderr)
	assert.False(t, svc.Initialized())
}

func TestInitCommand_Quiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.InitCmd{}, testutil.NewFakeService(), nil, runOpts{quiet: true})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Empty(t, stdout)
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewInitializedFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"buy milk"}, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Added task \"buy milk\" with id #1\n", stdout)

	tasks := svc.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Name)
	assert.Equal(t, now.Unix(), tasks[0].Creation)
	assert.Nil(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].Author)
	assert.Equal(t, 1, svc.Saves)
}

func TestAddCommand_JoinsWords(t *testing.T) {
	svc := threeTasks()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "groceries"}, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Added task \"Buy groceries\" with id #4\n", stdout)
	assert.Equal(t, "Buy groceries", svc.Tasks()[3].Name)
}

func TestAddCommand_NoDescription(t *testing.T) {
	for name, args := range map[string][]string{"none": nil, "blank": {"  ", ""}} {
		t.Run(name, func(t *testing.T) {
			svc := testutil.NewInitializedFakeService()

			stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, args, runOpts{})

			assert.Equal(t, exitcode.UserError, code)
			assert.Empty(t, stdout)
			assert.Equal(t, "error: description required\n", stderr)
			assert.Zero(t, svc.Saves)
			assert.Zero(t, svc.Locks)
		})
	}
}

func TestAddCommand_NotInitialized(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"buy milk"}, runOpts{})

	assert.Equal(t, exitcode.UserError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "error: todoclist.json doesn't exist, please use the \"init\" subcommand or the \"--auto-init\" flag\n", stderr)
	assert.False(t, svc.Initialized())
	assert.Zero(t, svc.Saves)
	assert.Zero(t, svc.Locks, "missing list is reported before locking")
}

func TestAddCommand_AutoInit(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"buy milk"}, runOpts{autoInit: true})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Initialized new todolist at /fake/todoclist.json\nAdded task \"buy milk\" with id #1\n", stdout)
	assert.Len(t, svc.Tasks(), 1)
}

func TestAddCommand_SaveError(t *testing.T) {
	svc := testutil.NewInitializedFakeService()
	svc.SaveErr = errors.New("disk full")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"buy milk"}, runOpts{})

	assert.Equal(t, exitcode.StorageError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "error: saving task: disk full\n", stderr)
	assert.Empty(t, svc.Tasks())
}

func TestAddCommand_MalformedFile(t *testing.T) {
	svc := testutil.NewInitializedFakeService()
	svc.LoadErr = fmt.Errorf("/fake/todoclist.json: %w: unexpected EOF", service.ErrParse)

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"buy milk"}, runOpts{})

	assert.Equal(t, exitcode.StorageError, code)
	assert.Equal(t, "error: /fake/todoclist.json: malformed task list: unexpected EOF\n", stderr)
	assert.Zero(t, svc.Saves)
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewInitializedFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"buy milk"}, runOpts{quiet: true})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Empty(t, stdout)
	assert.Len(t, svc.Tasks(), 1)
}

// Tests for list command
func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewInitializedFakeService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "List empty, good job!\n", stdout)
	assert.Zero(t, svc.Saves)
	assert.Zero(t, svc.Locks)
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewInitializedFakeService(), nil, runOpts{quiet: true})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Empty(t, stdout)
}

func TestListCommand_AllCompleted(t *testing.T) {
	svc := threeTasks()
	for id := 1; id <= 3; id++ {
		svc.CompleteTask(id, now)
	}

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "List empty, good job!\n", stdout)
}

func TestListCommand_PendingKeepsIDs(t *testing.T) {
	svc := threeTasks()
	svc.CompleteTask(2, now)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	testutil.GoldenString(t, "list_pending", stdout)
}

func TestListCommand_All(t *testing.T) {
	svc := threeTasks()
	svc.CompleteTask(2, now)

	cmd := &commands.ListCmd{}
	cmd.SetAll(true)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	testutil.GoldenString(t, "list_all", stdout)
}

func TestListCommand_NotInitialized(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.UserError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "please use the \"init\" subcommand")
	assert.False(t, svc.Initialized())
}

func TestListCommand_AutoInit(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, runOpts{autoInit: true})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Initialized new todolist at /fake/todoclist.json\nList empty, good job!\n", stdout)
	assert.True(t, svc.Initialized())
	assert.Equal(t, 1, svc.Locks)
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, threeTasks(), []string{"today"}, runOpts{})

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unexpected argument: today\n", stderr)
}

func TestListCommand_ReadError(t *testing.T) {
	svc := threeTasks()
	svc.LoadErr = errors.New("read task list: permission denied")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, runOpts{})

	assert.Equal(t, exitcode.StorageError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "error: read task list: permission denied\n", stderr)
}

// Tests for complete command
func TestCompleteCommand_Success(t *testing.T) {
	svc := threeTasks()

	stdout, stderr, code := runCommand(t, &commands.CompleteCmd{}, svc, []string{"2"}, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Completed task #2, very nice!\n", stdout)

	tasks := svc.Tasks()
	require.NotNil(t, tasks[1].Completed)
	assert.Equal(t, now.Unix(), *tasks[1].Completed)
	assert.Nil(t, tasks[0].Completed)
	assert.Nil(t, tasks[2].Completed)
	assert.Equal(t, 1, svc.Saves)
}

func TestCompleteCommand_AlreadyCompletedMovesTimestamp(t *testing.T) {
	svc := threeTasks()
	svc.CompleteTask(1, created)

	stdout, _, code := runCommand(t, &commands.CompleteCmd{}, svc, []string{"1"}, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Completed task #1, very nice!\n", stdout)
	assert.Equal(t, now.Unix(), *svc.Tasks()[0].Completed)
}

func TestCompleteCommand_HidesTaskFromList(t *testing.T) {
	svc := testutil.NewInitializedFakeService()
	svc.AddTask("buy milk", created)

	_, _, code := runCommand(t, &commands.CompleteCmd{}, svc, []string{"1"}, runOpts{})
	require.Equal(t, exitcode.Success, code)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, runOpts{})
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "List empty, good job!\n", stdout)
}

func TestCompleteCommand_NotFound(t *testing.T) {
	tests := map[string]*testutil.FakeService{
		"empty list":   testutil.NewInitializedFakeService(),
		"out of range": threeTasks(),
	}

	for name, svc := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.CompleteCmd{}, svc, []string{"5"}, runOpts{})

			assert.Equal(t, exitcode.UserError, code)
			assert.Empty(t, stdout)
			assert.Equal(t, "error: task #5 doesn't exist\n", stderr)
			assert.Zero(t, svc.Saves)
		})
	}
}

func TestCompleteCommand_InvalidID(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "error: task id required\n"},
		{[]string{"0"}, "error: invalid task id: task #0 doesn't exist\n"},
		{[]string{"abc"}, "error: invalid task id: the id should be numeric\n"},
		{[]string{"1", "2"}, "error: unexpected argument: 2\n"},
		{[]string{"4294967296"}, "error: task #4294967296 doesn't exist\n"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.args), func(t *testing.T) {
			svc := threeTasks()

			stdout, stderr, code := runCommand(t, &commands.CompleteCmd{}, svc, tt.args, runOpts{})

			assert.Equal(t, exitcode.UserError, code)
			assert.Empty(t, stdout)
			assert.Equal(t, tt.want, stderr)
			assert.Zero(t, svc.Saves)
			assert.Zero(t, svc.Locks)
		})
	}
}

func TestCompleteCommand_SaveError(t *testing.T) {
	svc := threeTasks()
	svc.SaveErr = errors.New("disk full")

	_, stderr, code := runCommand(t, &commands.CompleteCmd{}, svc, []string{"1"}, runOpts{})

	assert.Equal(t, exitcode.StorageError, code)
	assert.Equal(t, "error: completing task: disk full\n", stderr)
	assert.Nil(t, svc.Tasks()[0].Completed)
}

// Tests for delete command
func TestDeleteCommand_Success(t *testing.T) {
	svc := testutil.NewInitializedFakeService()
	svc.AddTask("buy milk", created)

	stdout, stderr, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{"1"}, runOpts{})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Deleted task #1: buy milk\n", stdout)
	assert.Empty(t, svc.Tasks())
	assert.Equal(t, 1, svc.Saves)
}

func TestDeleteCommand_ShiftsLaterIDs(t *testing.T) {
	svc := threeTasks()

	stdout, _, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{"2"}, runOpts{})
	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Deleted task #2: call mum\n", stdout)

	tasks := svc.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "buy milk", tasks[0].Name)
	assert.Equal(t, "water plants", tasks[1].Name)
}

func TestDeleteCommand_NotFound(t *testing.T) {
	svc := testutil.NewInitializedFakeService()

	stdout, stderr, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{"1"}, runOpts{})

	assert.Equal(t, exitcode.UserError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "error: task #1 doesn't exist\n", stderr)
	assert.Zero(t, svc.Saves)
}

func TestDeleteCommand_InvalidID(t *testing.T) {
	svc := threeTasks()

	_, stderr, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{"first"}, runOpts{})

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: invalid task id: the id should be numeric\n", stderr)
	assert.Len(t, svc.Tasks(), 3)
	assert.Zero(t, svc.Saves)
}

func TestDeleteCommand_SaveError(t *testing.T) {
	svc := threeTasks()
	svc.SaveErr = errors.New("disk full")

	_, stderr, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{"1"}, runOpts{})

	assert.Equal(t, exitcode.StorageError, code)
	assert.Equal(t, "error: deleting task: disk full\n", stderr)
	assert.Len(t, svc.Tasks(), 3)
}
