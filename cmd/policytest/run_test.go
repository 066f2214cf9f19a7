package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleFDR = `begin_version
3
end_version
begin_metric
0
end_metric
1
begin_variable
var0
-1
2
Atom at-start
Atom at-goal
end_variable
0
begin_state
0
end_state
begin_goal
1
0 1
end_goal
1
begin_operator
move
0
1
0 0 1
1
end_operator
0
`

func writeSampleTask(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "task.sas")
	require.NoError(t, os.WriteFile(path, []byte(sampleFDR), 0o644))
	return path
}

func TestRunCmdWithLocalPolicyFindsNoBug(t *testing.T) {
	taskPath := writeSampleTask(t)
	poolPath := filepath.Join(t.TempDir(), "pool.txt")
	bugPath := filepath.Join(t.TempDir(), "bugs.txt")

	root := newRootCmd()
	root.SetArgs([]string{
		"run",
		"--input-file", taskPath,
		"--max-steps", "2",
		"--pool-file", poolPath,
		"--bug-file", bugPath,
	})
	require.NoError(t, root.Execute())

	poolData, err := os.ReadFile(poolPath)
	require.NoError(t, err)
	require.NotEmpty(t, poolData)

	bugData, err := os.ReadFile(bugPath)
	require.NoError(t, err)
	require.NotContains(t, string(bugData), "result\n")
}

func TestRunCmdRequiresInputFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run"})
	require.Error(t, root.Execute())
}

func TestReplayPoolCmdRoundTrips(t *testing.T) {
	taskPath := writeSampleTask(t)
	poolPath := filepath.Join(t.TempDir(), "pool.txt")

	runRoot := newRootCmd()
	runRoot.SetArgs([]string{"run", "--input-file", taskPath, "--max-steps", "2", "--pool-file", poolPath})
	require.NoError(t, runRoot.Execute())

	replayRoot := newRootCmd()
	replayRoot.SetArgs([]string{"replay-pool", "--input-file", taskPath, "--pool-file", poolPath})
	require.NoError(t, replayRoot.Execute())
}
