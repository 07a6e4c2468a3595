package profiles

import (
	"errors"
	"strconv"

	"github.com/bbqsrc/cargo-pbuild/internal/cli/logging"
	"github.com/bbqsrc/cargo-pbuild/internal/config"
	"github.com/bbqsrc/cargo-pbuild/pkg/profile"
	"github.com/bbqsrc/cargo-pbuild/pkg/schema"
	"github.com/bbqsrc/cargo-pbuild/pkg/telemetry"
)

// sanitized strips credential-shaped content from an error before it is
// written to stderr diagnostics.
func sanitized(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(logging.SanitizeText(err.Error()))
}

const (
	stepLocate  = "locate"
	stepSchema  = "schema"
	stepProfile = "profile"
	stepProject = "project"
)

func logDiscovery(logger telemetry.StructuredLogger, located config.LocationResult) {
	if logger == nil {
		return
	}
	_ = logger.Emit(telemetry.Entry{
		Category: telemetry.CategoryDiscovery,
		Message:  "workspace located",
		Severity: telemetry.SeverityInfo,
		Step:     stepLocate,
		Document: located.Path,
		Metadata: logging.SanitizeMetadata(map[string]string{"source": string(located.Source)}),
	})
}

func logDiscoveryFailure(logger telemetry.StructuredLogger, explicit string, err error) {
	if logger == nil {
		return
	}
	_ = logger.Emit(telemetry.Entry{
		Category: telemetry.CategoryDiscovery,
		Message:  "workspace discovery failed",
		Severity: telemetry.SeverityError,
		Step:     stepLocate,
		Document: explicit,
		Error:    sanitized(err),
	})
}

func logSchemaParsed(logger telemetry.StructuredLogger, spec *schema.Spec) {
	if logger == nil {
		return
	}
	_ = logger.Emit(telemetry.Entry{
		Category: telemetry.CategoryParse,
		Message:  "schema parsed",
		Severity: telemetry.SeverityInfo,
		Step:     stepSchema,
		Metadata: logging.SanitizeMetadata(map[string]string{
			"name":  spec.Name,
			"types": strconv.Itoa(spec.Types.Len()),
		}),
	})
}

func logProfileParsed(logger telemetry.StructuredLogger, name string, p *profile.Profile) {
	if logger == nil {
		return
	}
	_ = logger.Emit(telemetry.Entry{
		Category: telemetry.CategoryParse,
		Message:  "profile parsed",
		Severity: telemetry.SeverityInfo,
		Step:     stepProfile,
		Document: name,
		Metadata: logging.SanitizeMetadata(map[string]string{
			"bins":     strconv.Itoa(len(p.Bins)),
			"libs":     strconv.Itoa(len(p.Libs)),
			"features": strconv.Itoa(len(p.Features)),
		}),
	})
}

func logParseFailure(logger telemetry.StructuredLogger, document string, err error) {
	if logger == nil {
		return
	}
	_ = logger.Emit(telemetry.Entry{
		Category: telemetry.CategoryParse,
		Message:  "parse failed",
		Severity: telemetry.SeverityError,
		Step:     stepProfile,
		Document: document,
		Error:    sanitized(err),
	})
}

func logProjection(logger telemetry.StructuredLogger, name string, flagCount int) {
	if logger == nil {
		return
	}
	_ = logger.Emit(telemetry.Entry{
		Category: telemetry.CategoryProject,
		Message:  "flags projected",
		Severity: telemetry.SeverityInfo,
		Step:     stepProject,
		Document: name,
		Metadata: logging.SanitizeMetadata(map[string]string{"flags": strconv.Itoa(flagCount)}),
	})
}
