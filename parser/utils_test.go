// Test Utils contains tools and building blocks that can be generically used for unit tests

package parser

import (
	"bytes"
	goparser "go/parser"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/newrelic/go-easy-annotations/handlers"
	"github.com/newrelic/go-easy-annotations/transform"
	"github.com/stretchr/testify/require"
)

const testFileName = "app.go"

// createTestApp writes files into a new module in a temporary directory and
// loads it. Loading packages is slow, so this is skipped in short mode.
func createTestApp(t *testing.T, files map[string]string) (string, []*decorator.Package) {
	// integration tests are slow, so we skip them in short mode
	if testing.Short() {
		t.Skip("Skipping package loading integration tests in short mode")
	}

	dir := t.TempDir()
	files["go.mod"] = "module example.com/app\n\ngo 1.22\n"
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
	}

	pkgs, err := Load(dir)
	require.NoError(t, err)
	return dir, pkgs
}

func panicRecovery(t *testing.T) {
	err := recover()
	if err != nil {
		t.Fatalf("%s recovered from panic: %+v\n\n%s", t.Name(), err, debug.Stack())
	}
}

func testDispatcher(t *testing.T) *transform.Dispatcher {
	t.Helper()
	registry, err := handlers.Default()
	require.NoError(t, err)
	return transform.NewDispatcher(registry)
}

// parseSource decorates src as a file named app.go.
func parseSource(t *testing.T, src string) (*decorator.Decorator, *dst.File) {
	t.Helper()
	dec := decorator.NewDecorator(nil)
	file, err := dec.ParseFile(testFileName, src, goparser.ParseComments)
	require.NoError(t, err)
	return dec, file
}

// transformSource runs the host pipeline with the default handlers over src
// and returns the printed file without empty lines.
func transformSource(t *testing.T, src string) (string, []error, *transform.Dispatcher) {
	t.Helper()
	defer panicRecovery(t)

	dispatcher := testDispatcher(t)
	dec, file := parseSource(t, src)
	problems := TransformFile(dispatcher, dec, testFileName, file)
	return printFile(t, file), problems, dispatcher
}

func printFile(t *testing.T, file *dst.File) string {
	t.Helper()
	buf := bytes.NewBuffer([]byte{})
	require.NoError(t, decorator.Fprint(buf, file))
	return normalize(buf.String())
}

// normalize drops empty lines so tests do not depend on how the printer
// spaces declarations.
func normalize(src string) string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
