package commands

import (
	"errors"
	"fmt"

	"github.com/cedadev/xfc-client/internal/app"
	"github.com/cedadev/xfc-client/internal/format"
	"github.com/cedadev/xfc-client/internal/services/xfc"
)

// ErrReported marks an error that has already been rendered to the
// user. main only maps it to a non-zero exit status.
var ErrReported = errors.New("error already reported")

// reportError renders err as a single colored line and returns
// ErrReported so callers can propagate a failure exit status without
// printing anything further.
func reportError(ctr *app.Container, err error) error {
	var serverErr *xfc.ServerError

	switch {
	case errors.Is(err, xfc.ErrNotInitialized):
		writeNotInitialised(ctr)
	case xfc.IsNetworkError(err):
		format.Red.Fprintf(ctr.Out, "** ERROR ** - cannot contact xfc server: %v", err)
		fmt.Fprintln(ctr.Out)
	case errors.As(err, &serverErr):
		if serverErr.Message != "" {
			format.Red.Fprintf(ctr.Out, "** ERROR ** - %s", serverErr.Message)
		} else {
			format.Red.Fprintf(ctr.Out, "** ERROR ** %d", serverErr.StatusCode)
		}
		fmt.Fprintln(ctr.Out)
	default:
		format.Red.Fprintf(ctr.Out, "** ERROR ** - %v", err)
		fmt.Fprintln(ctr.Out)
	}

	ctr.Logger.Debugf("command failed: %v", err)
	return ErrReported
}

// writeNotInitialised prints the standard hint for a 404 on any
// user-scoped call
func writeNotInitialised(ctr *app.Container) {
	format.Red.Fprintf(ctr.Out, "** ERROR ** - User %s not initialised yet.", ctr.Config.Username)
	fmt.Fprint(ctr.Out, "  Run ")
	format.Yellow.Fprint(ctr.Out, "xfc init")
	fmt.Fprintln(ctr.Out, " first.")
}
