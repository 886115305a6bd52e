package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/newrelic/go-easy-annotations/handlers"
	"github.com/newrelic/go-easy-annotations/internal/comment"
	"github.com/newrelic/go-easy-annotations/internal/telemetry"
	"github.com/newrelic/go-easy-annotations/internal/util"
	"github.com/newrelic/go-easy-annotations/parser"
	"github.com/newrelic/go-easy-annotations/transform"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

const (
	defaultPackagePath    = ""
	defaultOutputFilePath = ""
	defaultDebug          = false
	defaultWrite          = false

	// debug output turns on every log level up to debug
	debugVerbosity = 2

	telemetryShutdownTimeout = 5 * time.Second
)

var (
	debug         bool
	write         bool
	workers       int
	packagePath   string
	diffFile      string
	telemetryName string
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "generate annotated code",
	Long:  "generate the code asked for by annotations in existing application source files",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		Transform(cmd.Context())
	},
}

// validateOutputFile checks that the custom output path is valid
func validateOutputFile(path string) error {
	if filepath.Ext(path) != ".diff" {
		return errors.New("output file must have a .diff extension")
	}

	_, err := os.Stat(filepath.Dir(path))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("output file directory does not exist: %v", err)
	}

	return nil
}

// setOutputFilePath returns a complete output file path based on the provided
// diffFile flag value. If the flag is empty, the default path will be based
// on the applicationPath.
//
// This will fail if the packagePath is not valid, and must be run after
// validating it.
func setOutputFilePath(outputFilePath, applicationPath string) (string, error) {
	if outputFilePath == "" {
		outputFilePath = filepath.Join(applicationPath, parser.DefaultDiffFileName)
	}

	err := validateOutputFile(outputFilePath)
	if err != nil {
		return "", err
	}

	return outputFilePath, nil
}

func Transform(ctx context.Context) {
	if packagePath == "" {
		log.Fatal("--path is required")
	}

	if _, err := os.Stat(packagePath); err != nil {
		cobra.CheckErr(fmt.Errorf("--path \"%s\" is invalid: %v", packagePath, err))
	}

	outputFile, err := setOutputFilePath(diffFile, packagePath)
	if err != nil {
		cobra.CheckErr(err)
	}

	if debug {
		commonlog.Configure(max(verbosity, debugVerbosity), nil)
		comment.EnableConsolePrinter(packagePath)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)

	registry, err := handlers.Default()
	if err != nil {
		log.Fatal(err)
	}

	recorder, err := telemetry.New(telemetryName)
	if err != nil {
		log.Fatal(err)
	}

	// log.Fatal skips deferred calls, so telemetry is flushed before any exit
	err = transformApplication(ctx, registry, recorder, outputFile)
	recorder.Shutdown(telemetryShutdownTimeout)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// transformApplication loads the application at packagePath, transforms it
// and writes the results.
func transformApplication(ctx context.Context, registry *transform.Registry, recorder *telemetry.Recorder, outputFile string) error {
	pkgs, err := parser.Load(packagePath)
	if err != nil {
		return err
	}

	manager := parser.NewManager(pkgs, transform.NewDispatcher(registry), recorder, packagePath, outputFile, workers)
	if err := manager.CreateDiffFile(); err != nil {
		return err
	}

	if err := manager.TransformApplication(ctx); err != nil {
		return err
	}

	if debug {
		log.Print(util.Dump(manager.Stats()))
	}

	if err := manager.WriteDiff(); err != nil {
		return err
	}

	if write {
		if err := manager.WriteFiles(); err != nil {
			return err
		}
	}

	comment.WriteAll()
	log.Print(summary(manager.Files(), manager.Stats(), len(manager.Problems())))
	return nil
}

// summary is the line printed once a run is complete.
func summary(files int, stats transform.Stats, problems int) string {
	return fmt.Sprintf("%d files transformed: %d annotations applied, %d failed, %d declarations generated, %d problems reported",
		files, stats.Applied, stats.Failed, stats.Generated, problems)
}

func init() {
	transformCmd.Flags().BoolVar(&debug, "debug", defaultDebug, "enable debugging output")
	transformCmd.Flags().BoolVar(&write, "write", defaultWrite, "rewrite the source files in place in addition to writing the diff")
	transformCmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "number of files transformed at the same time")
	transformCmd.Flags().StringVar(&packagePath, "path", defaultPackagePath, "specify package path")
	transformCmd.Flags().StringVar(&diffFile, "diff", defaultOutputFilePath, "specify diff output file path")
	transformCmd.Flags().StringVar(&telemetryName, "telemetry-name", telemetry.DefaultAppName, "application name for New Relic telemetry, sent only when "+telemetry.LicenseKeyEnv+" is set")
	cobra.MarkFlagFilename(transformCmd.Flags(), "diff", ".diff") // for file completion

	rootCmd.AddCommand(transformCmd)
}
