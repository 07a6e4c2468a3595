package profiles

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bbqsrc/cargo-pbuild/internal/config"
	"github.com/bbqsrc/cargo-pbuild/pkg/profile"
	"github.com/bbqsrc/cargo-pbuild/pkg/schema"
	"github.com/bbqsrc/cargo-pbuild/pkg/telemetry"
)

// CommonOptions captures the flags shared by every profile command.
type CommonOptions struct {
	Workspace string
	Verbose   bool
}

// Deps configures workspace collaborators, allowing tests to stub discovery.
type Deps struct {
	Locate func(string) (config.LocationResult, error)
	Open   func(string) (*config.Workspace, error)
}

var defaultDeps = Deps{
	Locate: config.LocateWorkspace,
	Open:   config.OpenWorkspace,
}

func bindCommonFlags(fs *pflag.FlagSet, opts *CommonOptions) {
	fs.StringVar(&opts.Workspace, "workspace", "", "Workspace directory containing specs/ and profiles/")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Emit structured diagnostics to stderr")
}

// newRunLogger builds a structured logger for one command run, or nil when
// diagnostics are disabled.
func newRunLogger(cmd *cobra.Command, opts CommonOptions) telemetry.StructuredLogger {
	if !opts.Verbose {
		return nil
	}
	logger, err := telemetry.NewLogger(cmd.ErrOrStderr(), uuid.NewString())
	if err != nil {
		return nil
	}
	return logger
}

// newRunEmitter builds a phase event emitter for one command run, or nil when
// diagnostics are disabled.
func newRunEmitter(cmd *cobra.Command, opts CommonOptions) *telemetry.Emitter {
	if !opts.Verbose {
		return nil
	}
	return telemetry.NewEmitter(cmd.ErrOrStderr())
}

// emitPhase wraps fn in start/completion events when diagnostics are enabled.
func emitPhase(emitter *telemetry.Emitter, phase telemetry.Phase, metadata map[string]string, fn func() error) error {
	if emitter == nil {
		return fn()
	}
	return emitter.EmitPhase(phase, metadata, fn)
}

// openWorkspace locates and opens the workspace directory.
func openWorkspace(opts CommonOptions, deps Deps, logger telemetry.StructuredLogger, emitter *telemetry.Emitter) (*config.Workspace, error) {
	var ws *config.Workspace
	err := emitPhase(emitter, telemetry.PhaseLocate, nil, func() error {
		located, err := deps.Locate(opts.Workspace)
		if err != nil {
			logDiscoveryFailure(logger, opts.Workspace, err)
			return err
		}
		logDiscovery(logger, located)
		ws, err = deps.Open(located.Path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// loadProfile runs the full document pipeline for one named profile.
func loadProfile(opts CommonOptions, deps Deps, logger telemetry.StructuredLogger, emitter *telemetry.Emitter, name string) (*profile.Profile, error) {
	ws, err := openWorkspace(opts, deps, logger, emitter)
	if err != nil {
		return nil, err
	}

	var spec *schema.Spec
	err = emitPhase(emitter, telemetry.PhaseSchema, nil, func() error {
		loaded, err := loadSpec(ws, logger)
		spec = loaded
		return err
	})
	if err != nil {
		return nil, err
	}

	var p *profile.Profile
	err = emitPhase(emitter, telemetry.PhaseProfile, map[string]string{"profile": name}, func() error {
		parsed, err := ws.LoadProfile(spec, name)
		if err != nil {
			logParseFailure(logger, name, err)
			return err
		}
		logProfileParsed(logger, name, parsed)
		p = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func loadSpec(ws *config.Workspace, logger telemetry.StructuredLogger) (*schema.Spec, error) {
	spec, err := ws.LoadSpec()
	if err != nil {
		logParseFailure(logger, "schema", err)
		return nil, err
	}
	logSchemaParsed(logger, spec)
	return spec, nil
}
