// Package telemetry reports transform runs of go-easy-annotations to New Relic.
//
// Telemetry is off unless a license key is found in the environment. Every
// method is safe to call on a nil *Recorder, so callers never need to check
// whether it is enabled.
package telemetry

import (
	"fmt"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/newrelic/go-easy-annotations/transform"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("telemetry")

const (
	// LicenseKeyEnv is the environment variable the license key is read from.
	LicenseKeyEnv = "NEW_RELIC_LICENSE_KEY"

	// DefaultAppName is the application name reported when none is given.
	DefaultAppName = "go-easy-annotations"

	passEvent = "AnnotationPass"
)

// Recorder records one transaction per transformed file and one custom event
// per run.
type Recorder struct {
	app *newrelic.Application
}

// New starts a New Relic application named appName. It returns a nil Recorder
// when no license key is set.
func New(appName string) (*Recorder, error) {
	if os.Getenv(LicenseKeyEnv) == "" {
		log.Debugf("%s is not set, telemetry is disabled", LicenseKeyEnv)
		return nil, nil
	}
	if appName == "" {
		appName = DefaultAppName
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(appName),
		newrelic.ConfigFromEnvironment(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start telemetry: %w", err)
	}
	return &Recorder{app: app}, nil
}

// File is the transaction covering the transformation of one file.
type File struct {
	txn *newrelic.Transaction
}

// StartFile starts the transaction of the file with the given name.
func (r *Recorder) StartFile(name string) *File {
	if r == nil {
		return nil
	}
	txn := r.app.StartTransaction("TransformFile")
	txn.AddAttribute("file", name)
	return &File{txn: txn}
}

// End ends the transaction, recording how many problems were reported and
// how many declarations were generated for the file.
func (f *File) End(problems []error, lowered int) {
	if f == nil {
		return
	}
	f.txn.AddAttribute("problems", len(problems))
	f.txn.AddAttribute("lowered", lowered)
	for _, err := range problems {
		f.txn.NoticeError(err)
	}
	f.txn.End()
}

// RecordPass records the totals of a run as an AnnotationPass custom event.
func (r *Recorder) RecordPass(files int, stats transform.Stats, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.app.RecordCustomEvent(passEvent, map[string]interface{}{
		"files":     files,
		"matches":   stats.Matches,
		"applied":   stats.Applied,
		"failed":    stats.Failed,
		"generated": stats.Generated,
		"flagged":   stats.Flagged,
		"duration":  elapsed.Seconds(),
	})
}

// Shutdown flushes everything recorded so far, waiting at most timeout.
func (r *Recorder) Shutdown(timeout time.Duration) {
	if r == nil {
		return
	}
	r.app.Shutdown(timeout)
}
