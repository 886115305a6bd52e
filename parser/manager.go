package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/gopackages"
	"github.com/newrelic/go-easy-annotations/internal/telemetry"
	"github.com/newrelic/go-easy-annotations/internal/util"
	"github.com/newrelic/go-easy-annotations/transform"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

// Load decorates every package under appPath.
func Load(appPath string) ([]*decorator.Package, error) {
	pkgs, err := decorator.Load(&packages.Config{Dir: appPath, Mode: packages.LoadSyntax}, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages in %s: %w", appPath, err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Errorf("%s: %s", pkg.PkgPath, e.Msg))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return pkgs, nil
}

// TransformFile runs the host pipeline over a single decorated file and
// returns the problems reported for it. dec is only used to find the position
// of problems and may be nil.
func TransformFile(dispatcher *transform.Dispatcher, dec *decorator.Decorator, name string, file *dst.File) []error {
	f := newFileTransform(name, dec, file, dispatcher)
	f.run()
	return f.problems
}

// Manager transforms every file of a set of loaded packages and writes the
// results out.
type Manager struct {
	appPath  string // path to the user's application as provided by the user
	diffFile string
	workers  int

	dispatcher *transform.Dispatcher
	recorder   *telemetry.Recorder
	packages   []*decorator.Package

	mu       sync.Mutex
	problems []error
	files    int
}

// NewManager creates a Manager for pkgs. A workers value below one transforms
// one file at a time. recorder may be nil.
func NewManager(pkgs []*decorator.Package, dispatcher *transform.Dispatcher, recorder *telemetry.Recorder, appPath, diffFile string, workers int) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		appPath:    appPath,
		diffFile:   diffFile,
		workers:    workers,
		dispatcher: dispatcher,
		recorder:   recorder,
		packages:   pkgs,
	}
}

// Problems returns every problem reported so far.
func (m *Manager) Problems() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.problems...)
}

// Stats returns the counters of the dispatcher.
func (m *Manager) Stats() transform.Stats {
	return m.dispatcher.Stats()
}

// Files returns the number of files transformed so far.
func (m *Manager) Files() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files
}

// TransformApplication transforms every file of every package. Files are
// independent compilation units, so they are transformed concurrently. The
// returned error is only set when ctx is cancelled; problems found in files
// are collected and available from Problems.
func (m *Manager) TransformApplication(ctx context.Context) error {
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for _, pkg := range m.packages {
		for _, file := range pkg.Syntax {
			name := pkg.Decorator.Filenames[file]
			if util.IsGenerated(file) {
				log.Debugf("skipping generated file %s", name)
				continue
			}

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				txn := m.recorder.StartFile(name)
				f := newFileTransform(name, pkg.Decorator, file, m.dispatcher)
				f.run()
				txn.End(f.problems, f.lowered)

				m.mu.Lock()
				m.problems = append(m.problems, f.problems...)
				m.files++
				m.mu.Unlock()

				log.Infof("transformed %s: %d declarations generated, %d problems", name, f.lowered, len(f.problems))
				return nil
			})
		}
	}

	err := g.Wait()
	m.recorder.RecordPass(m.Files(), m.Stats(), time.Since(start))
	return err
}

// CreateDiffFile creates an empty diff file, replacing any previous one.
func (m *Manager) CreateDiffFile() error {
	f, err := os.Create(m.diffFile)
	if err != nil {
		return err
	}
	return f.Close()
}

// restore prints every file of pkg, calling fn with its path, its original
// source and its transformed source.
func (m *Manager) restore(pkg *decorator.Package, fn func(path string, original, modified []byte) error) error {
	r := decorator.NewRestorerWithImports(pkg.Dir, gopackages.New(pkg.Dir))
	for _, file := range pkg.Syntax {
		path := pkg.Decorator.Filenames[file]
		original, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		modified := bytes.NewBuffer([]byte{})
		if err := r.Fprint(modified, file); err != nil {
			return fmt.Errorf("failed to print %s: %w", path, err)
		}
		if bytes.Equal(original, modified.Bytes()) {
			continue
		}
		if err := fn(path, original, modified.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// WriteDiff appends the changes made to every file to the diff file.
func (m *Manager) WriteDiff() error {
	absAppPath, err := filepath.Abs(m.appPath)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(m.diffFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, pkg := range m.packages {
		err := m.restore(pkg, func(path string, original, modified []byte) error {
			// what this file will be named in the diff file
			diffFileName, err := filepath.Rel(absAppPath, path)
			if err != nil {
				return err
			}
			patch := godiffpatch.GeneratePatch(diffFileName, string(original), string(modified))
			_, err = f.WriteString(patch)
			return err
		})
		if err != nil {
			return err
		}
	}
	log.Noticef("changes written to %s", m.diffFile)
	return nil
}

// WriteFiles rewrites every changed file in place.
func (m *Manager) WriteFiles() error {
	written := 0
	for _, pkg := range m.packages {
		err := m.restore(pkg, func(path string, _, modified []byte) error {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			written++
			return os.WriteFile(path, modified, info.Mode().Perm())
		})
		if err != nil {
			return err
		}
	}
	log.Noticef("%d files rewritten", written)
	return nil
}
