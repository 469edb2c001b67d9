package commands

import (
	"fmt"

	"github.com/cedadev/xfc-client/internal/app"
	"github.com/cedadev/xfc-client/internal/format"
	"github.com/cedadev/xfc-client/internal/services/xfc"
)

// List prints the files in the user's cache area. A non-empty match is
// applied server-side as a substring filter.
func List(ctr *app.Container, match string, opts format.ListOptions) error {
	if err := checkSortFlags(ctr, opts); err != nil {
		return err
	}

	files, err := ctr.Client.ListFiles(ctr.Config.Username, match)
	if err != nil {
		return reportError(ctr, err)
	}

	format.WriteFileList(ctr.Out, files, opts)
	return nil
}

// Schedule prints the files scheduled for deletion and when they will
// be removed.
func Schedule(ctr *app.Container, opts format.ListOptions) error {
	if err := checkSortFlags(ctr, opts); err != nil {
		return err
	}

	deletions, err := ctr.Client.ScheduledDeletions(ctr.Config.Username)
	if err != nil {
		return reportError(ctr, err)
	}

	// The API supports several deletion batches per user but only ever
	// populates the first.
	if len(deletions) == 0 || len(deletions[0].Files) == 0 {
		format.Green.Fprintln(ctr.Out, "No files scheduled for deletion")
		return nil
	}
	batch := deletions[0]

	when, err := format.ParseTimestamp(batch.TimeDelete)
	if err != nil {
		return reportError(ctr, &xfc.ProtocolError{Endpoint: "scheduled_deletions", Err: err})
	}

	format.Red.Fprintf(ctr.Out, "Files scheduled for deletion on%s", format.Date(when))
	fmt.Fprintln(ctr.Out)
	format.WriteFileList(ctr.Out, batch.Files, opts)
	return nil
}

// Predict prints the server's forecast of when the temporal quota will
// be exceeded and which files would be deleted first.
func Predict(ctr *app.Container, opts format.ListOptions) error {
	if err := checkSortFlags(ctr, opts); err != nil {
		return err
	}

	prediction, err := ctr.Client.PredictDeletions(ctr.Config.Username)
	if err != nil {
		return reportError(ctr, err)
	}

	if len(prediction.Files) == 0 {
		format.Green.Fprintln(ctr.Out, "Quota will never be exceeded!")
		return nil
	}

	when, err := format.ParseTimestamp(prediction.TimePredict)
	if err != nil {
		return reportError(ctr, &xfc.ProtocolError{Endpoint: "predict_deletions", Err: err})
	}

	format.Red.Fprintf(ctr.Out, "Quota is predicted to be exceeded on%s by %s days",
		format.Date(when), format.Size(prediction.OverQuota))
	fmt.Fprintln(ctr.Out)
	fmt.Fprintln(ctr.Out, "Files predicted to be deleted")
	format.WriteFileList(ctr.Out, prediction.Files, opts)
	return nil
}

// checkSortFlags rejects the two sort orders together, before any
// request is made
func checkSortFlags(ctr *app.Container, opts format.ListOptions) error {
	if opts.SortTQ && opts.SortHQ {
		format.Red.Fprint(ctr.Out, "** ERROR ** cannot sort by both Temporal Quota used (TQ) and file size (HQ).")
		fmt.Fprintln(ctr.Out)
		return ErrReported
	}
	return nil
}
