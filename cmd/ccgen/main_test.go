package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sourceplane/ccgen/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingInvoker records argv instead of starting processes
type recordingInvoker struct {
	calls  [][]string
	status int
}

func (r *recordingInvoker) Invoke(_ context.Context, args []string) (int, error) {
	r.calls = append(r.calls, args)
	return r.status, nil
}

type result struct {
	code   int
	stdout string
	stderr string
	calls  [][]string
}

func runCLI(t *testing.T, status int, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	inv := &recordingInvoker{status: status}
	factory := func(io.Writer, io.Writer) runner.Invoker { return inv }

	code := execute(context.Background(), args, &stdout, &stderr, factory)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String(), calls: inv.calls}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestExecute_ObjectMatrix(t *testing.T) {
	res := runCLI(t, 0, "-e", "o", "-b", "source", "-o", "-c", "-o", "-g,debug,,nodebug", "-o", "-m32,32,-m64,64", "source.c")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, []string{
		"Executing... cc -c -g -m32 -o source_debug_32.o source.c",
		"Executing... cc -c -g -m64 -o source_debug_64.o source.c",
		"Executing... cc -c -m32 -o source_nodebug_32.o source.c",
		"Executing... cc -c -m64 -o source_nodebug_64.o source.c",
	}, lines(res.stdout))
	assert.Len(t, res.calls, 4)
	assert.Equal(t, []string{"cc", "-c", "-m32", "-o", "source_nodebug_32.o", "source.c"}, res.calls[2])
}

func TestExecute_BackendFailureDoesNotFailRun(t *testing.T) {
	res := runCLI(t, 1, "-x", "gcc", "-o", "-O0,,-O2", "main.c")

	assert.Equal(t, 0, res.code)
	assert.Len(t, res.calls, 2, "every combination runs even when the backend fails")
	assert.Contains(t, res.stderr, "non-zero status")
}

func TestExecute_ZeroOptions(t *testing.T) {
	res := runCLI(t, 0, "main.c")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Executing... cc main.c\n", res.stdout)
	assert.Equal(t, [][]string{{"cc", "main.c"}}, res.calls)
}

func TestExecute_DoubleDashForwardsFlags(t *testing.T) {
	res := runCLI(t, 0, "-o", "-g", "--", "-lm", "x.c")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, [][]string{{"cc", "-g", "-lm", "x.c"}}, res.calls)
}

func TestExecute_DryRun(t *testing.T) {
	res := runCLI(t, 0, "-n", "-o", "-O0,,-O2", "main.c")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.calls)
	assert.Equal(t, "Executing... cc -O0 main.c\nExecuting... cc -O2 main.c\n", res.stdout)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "empty spec", args: []string{"-o", "", "main.c"}, want: "malformed option spec"},
		{name: "unknown flag", args: []string{"-q", "main.c"}, want: "unrecognized option"},
		{name: "unknown long flag", args: []string{"--quiet", "main.c"}, want: "unrecognized option"},
		{name: "missing operand", args: []string{"main.c", "-b"}, want: "missing operand"},
		{name: "render overflow", args: []string{"-b", "base", "-o", "-g," + strings.Repeat("x", 60), "main.c"}, want: "output filename"},
		{name: "conflicting modes", args: []string{"--validate", "--debug-config", "main.c"}, want: "none of the others can be"},
		{name: "view without plan file", args: []string{"--view", "tree", "main.c"}, want: "--view requires --plan-file"},
		{name: "too many combinations", args: []string{"--max-combinations", "3", "-o", "-a,,-b", "-o", "-c,,-d", "main.c"}, want: "too many combinations"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, 0, tc.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tc.want)
			assert.Empty(t, res.calls, "no backend may run after a fatal error")
		})
	}
}

func TestExecute_NoArguments(t *testing.T) {
	res := runCLI(t, 0)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Usage:")
	assert.Empty(t, res.calls)
}

func TestExecute_HelpAndVersion(t *testing.T) {
	res := runCLI(t, 0, "-h")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "--option")

	res = runCLI(t, 0, "-v")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "ccgen 1.0\n", res.stdout)
}

func TestExecute_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ccgen.log")

	res := runCLI(t, 0, "-l", logPath, "-o", "-O0,,-O2", "main.c")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Len(t, res.calls, 2)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "Executing... cc -O0 main.c\nExecuting... cc -O2 main.c\n", string(data))
}

func TestExecute_LogFileReceivesErrors(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ccgen.log")

	res := runCLI(t, 0, "-l", logPath, "-o", "", "main.c")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "malformed option spec")
}

const matrixYAML = `apiVersion: ccgen.sourceplane.io/v1
kind: Matrix
metadata:
  name: objects
spec:
  base: source
  extension: o
  args: [source.c]
  options:
    - spec: "-c"
    - name: debug
      values:
        - {formal: -g, informal: debug}
        - {formal: "", informal: nodebug}
    - name: arch
      spec: "-m32,32,-m64,64"
`

func writeMatrix(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(matrixYAML), 0600))
	return path
}

func TestExecute_Matrix(t *testing.T) {
	res := runCLI(t, 0, "-m", writeMatrix(t), "-x", "clang")

	require.Equal(t, 0, res.code, res.stderr)
	require.Len(t, res.calls, 4)
	assert.Equal(t, []string{"clang", "-c", "-g", "-m32", "-o", "source_debug_32.o", "source.c"}, res.calls[0])
}

func TestExecute_ModeNamesReachBackend(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{
			name: "make target named debug",
			args: []string{"-x", "make", "debug"},
			want: [][]string{{"make", "debug"}},
		},
		{
			name: "trailing argument named run",
			args: []string{"-x", "./deploy", "-o", "a,,b", "run"},
			want: [][]string{{"./deploy", "a", "run"}, {"./deploy", "b", "run"}},
		},
		{
			name: "help and validate as arguments",
			args: []string{"-x", "make", "help", "validate", "plan"},
			want: [][]string{{"make", "help", "validate", "plan"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, 0, tc.args...)
			require.Equal(t, 0, res.code, res.stderr)
			assert.Equal(t, tc.want, res.calls)
		})
	}
}

func TestExecute_LoggedLineMatchesArgv(t *testing.T) {
	res := runCLI(t, 0, "-o", `-DDIR=C:\tmp`, "-o", "-DMSG=it's,apos", "main.c")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, [][]string{{"cc", `-DDIR=C:\tmp`, "-DMSG=it's", "main.c"}}, res.calls)
	assert.Equal(t, `Executing... cc -DDIR=C:\\tmp -DMSG=it\'s main.c`+"\n", res.stdout)
}

func TestExecute_Validate(t *testing.T) {
	res := runCLI(t, 0, "--validate", "-m", writeMatrix(t))
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "✓ All validation passed (4 invocations)")
	assert.Empty(t, res.calls)

	res = runCLI(t, 0, "--validate")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--matrix is required")
}

func TestExecute_DebugConfig(t *testing.T) {
	res := runCLI(t, 0, "--debug-config", "-m", writeMatrix(t))
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Backend: cc")
	assert.Contains(t, res.stdout, "Combinations: 4")
	assert.Contains(t, res.stdout, "- debug: 2 values")
	assert.Empty(t, res.calls)
}

func TestExecute_PlanThenRun(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "plan.yaml")

	res := runCLI(t, 0, "--plan-file", planPath, "--view", "tree", "-b", "out", "-o", "-O0,O0,-O2,O2", "a.c")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "✓ Plan generated with 2 invocations (2 named outputs)")
	assert.Contains(t, res.stdout, "option 1: -O0 [O0]")
	assert.Empty(t, res.calls)

	res = runCLI(t, 0, "--run-plan", planPath)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, [][]string{
		{"cc", "-O0", "-o", "out_O0", "a.c"},
		{"cc", "-O2", "-o", "out_O2", "a.c"},
	}, res.calls)
	assert.Equal(t, []string{
		"Executing... cc -O0 -o out_O0 a.c",
		"Executing... cc -O2 -o out_O2 a.c",
	}, lines(res.stdout))

	res = runCLI(t, 0, "-n", "--run-plan", planPath)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.calls)
	assert.Len(t, lines(res.stdout), 2)

	res = runCLI(t, 0, "--run-plan", planPath, "extra.c")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "takes no arguments")
	assert.Empty(t, res.calls)
}

func TestExecute_PlanUnknownView(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "plan.json")

	res := runCLI(t, 0, "--plan-file", planPath, "--view", "graph", "a.c")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown view")
	assert.NoFileExists(t, planPath)
}
