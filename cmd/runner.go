package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sati/internal/pds"
	"github.com/desertthunder/sati/internal/records"
	"github.com/desertthunder/sati/internal/shared"
	"github.com/desertthunder/sati/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	client   *pds.Client
	sessions *pds.SessionManager
	store    *records.Store
	engine   *tasks.Engine
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Client   *pds.Client
	Sessions *pds.SessionManager
	Store    *records.Store
	Engine   *tasks.Engine
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Client == nil {
		opts.Client = pds.NewClient(opts.Config.PDS.Host, nil)
	}
	if opts.Sessions == nil {
		opts.Sessions = pds.NewSessionManager(opts.Config, opts.Client, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = records.NewStore(opts.Client, opts.Sessions, opts.Logger)
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewEngine(opts.Store, nil, nil, opts.Logger)
	}

	return &Runner{
		config:   opts.Config,
		client:   opts.Client,
		sessions: opts.Sessions,
		store:    opts.Store,
		engine:   opts.Engine,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, logCommand, sessionsCommand, presetCommand, cacheCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// prepare restores a saved session and routes record traffic through the
// authorized client. Returns an auth error when no one is signed in, before
// any record request is made.
func (r *Runner) prepare(ctx context.Context) error {
	if r.sessions.Current() == nil {
		r.sessions.InitOrRestore(ctx)
	}

	httpClient, err := r.sessions.AuthClient(ctx)
	if err != nil {
		return err
	}

	r.client.SetHTTPClient(httpClient)
	return nil
}

// renderProgress consumes updates until progressCh closes, printing each with
// the given render func. The returned channel closes once every buffered
// update has been written, so callers can wait before printing a summary.
func (r *Runner) renderProgress(progressCh <-chan tasks.ProgressUpdate, render func(tasks.ProgressUpdate)) <-chan struct{} {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			render(update)
		}
	}()
	return drained
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
