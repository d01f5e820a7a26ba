package rookery

import (
	"log/slog"

	"github.com/fogfish/opts"
)

var (
	// WithName sets the hub name used in log attributes.
	WithName = opts.ForName[Hub, string]("name")
	// WithLogger sets the base logger; defaults to slog.Default().
	WithLogger = opts.ForName[Hub, *slog.Logger]("log")
)
