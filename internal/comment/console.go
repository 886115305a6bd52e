package comment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/newrelic/go-easy-annotations/internal/util"
)

type ConsolePrinter struct {
	appRoot  string
	out      io.Writer
	mu       sync.Mutex
	comments []string
}

// initialize this if you want to use it at the start of the program
var printer *ConsolePrinter

// EnableConsolePrinter mirrors every comment written by this package to
// standard error. File names are printed relative to the base of applicationPath.
func EnableConsolePrinter(applicationPath string) {
	printer = newConsolePrinter(applicationPath, os.Stderr)
}

func newConsolePrinter(applicationPath string, out io.Writer) *ConsolePrinter {
	return &ConsolePrinter{
		appRoot: filepath.Base(applicationPath),
		out:     out,
	}
}

func WriteAll() {
	if printer != nil {
		printer.Flush()
	}
}

// Add appends a new comment to the console printer.
// The message is the main comment, and additionalInfo is a list of optional
// comments that will be printed on new lines below the main comment.
// It is safe to call from several goroutines.
func (p *ConsolePrinter) Add(dec *decorator.Decorator, node dst.Node, header, message string, additionalInfo ...string) {
	if p == nil {
		return
	}

	pos := getPosition(dec, node, p.appRoot)

	b := strings.Builder{}
	b.WriteString(header)
	b.WriteByte(':')
	b.WriteByte(' ')

	if pos != "" {
		b.WriteString(pos)
		b.WriteByte(' ')
	}
	b.WriteString(message)
	for _, info := range additionalInfo {
		b.WriteString("\n\t")
		b.WriteString(info)
	}

	p.mu.Lock()
	p.comments = append(p.comments, b.String())
	p.mu.Unlock()
}

// Flush writes all the pending comments and clears them.
func (p *ConsolePrinter) Flush() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.comments {
		fmt.Fprintln(p.out, c)
	}
	p.comments = nil
}

// getPosition creates a human readable string representing the position of a node in an application.
// In order to improve readability, the filename will be localized to the root of the application.
// The format of the string is as follows based on the positional info available:
//
//	Info                  | Formatting
//	----------------------|---------------------
//	filename, line, column| filename line:column
//	filename, line        | filename line
//	invalid or empty      | ""
func getPosition(dec *decorator.Decorator, node dst.Node, appRoot string) string {
	pos := util.Position(node, dec)
	if pos == nil || !pos.IsValid() {
		return ""
	}

	path := relativeToRoot(pos.Filename, appRoot)
	if pos.Line == 0 {
		return path
	}

	path += " " + strconv.Itoa(pos.Line)
	if pos.Column != 0 {
		path += ":" + strconv.Itoa(pos.Column)
	}
	return path
}

// relativeToRoot cuts everything before the last path segment equal to appRoot.
func relativeToRoot(filename, appRoot string) string {
	segments := strings.Split(filepath.ToSlash(filename), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == appRoot {
			return filepath.Join(segments[i:]...)
		}
	}
	return filename
}
