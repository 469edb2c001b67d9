package commands

import (
	"fmt"
	"io"

	"github.com/cedadev/xfc-client/internal/app"
	"github.com/cedadev/xfc-client/internal/format"
	"github.com/cedadev/xfc-client/internal/services/xfc"
)

// Init creates the user's cache space on the server. The email is
// optional; when empty only the username is sent.
func Init(ctr *app.Container, email string) error {
	user, err := ctr.Client.CreateUser(ctr.Config.Username, email)
	if err != nil {
		format.Red.Fprintf(ctr.Out, "** ERROR ** - cannot initialise user %s", ctr.Config.Username)
		fmt.Fprintln(ctr.Out)
		return reportError(ctr, err)
	}

	format.Green.Fprintln(ctr.Out, "** SUCCESS ** - user initialised with:")
	writeUserBlock(ctr.Out, user)
	return nil
}

// Email prints the registered email address, or updates it when email
// is non-empty.
func Email(ctr *app.Container, email string) error {
	if email == "" {
		user, err := ctr.Client.GetUser(ctr.Config.Username)
		if err != nil {
			return reportError(ctr, err)
		}
		fmt.Fprintln(ctr.Out, user.Email)
		return nil
	}

	user, err := ctr.Client.UpdateEmail(ctr.Config.Username, email)
	if err != nil {
		return reportError(ctr, err)
	}
	format.Green.Fprintln(ctr.Out, "** SUCCESS ** - user email updated to: "+user.Email)
	return nil
}

// Info reprints the user record shown at init time
func Info(ctr *app.Container) error {
	user, err := ctr.Client.GetUser(ctr.Config.Username)
	if err != nil {
		return reportError(ctr, err)
	}

	format.Green.Fprintln(ctr.Out, "** SUCCESS ** - user info:")
	writeUserBlock(ctr.Out, user)
	return nil
}

// Path prints the path of the user's area on the transfer cache
func Path(ctr *app.Container) error {
	user, err := ctr.Client.GetUser(ctr.Config.Username)
	if err != nil {
		return reportError(ctr, err)
	}

	fmt.Fprintln(ctr.Out, user.CachePath)
	return nil
}

// Quota prints the used, allocated and remaining temporal and hard
// quotas, with the remaining values colored red when overdrawn.
func Quota(ctr *app.Container) error {
	user, err := ctr.Client.GetUser(ctr.Config.Username)
	if err != nil {
		return reportError(ctr, err)
	}
	w := ctr.Out

	format.Magenta.Fprintf(w,
		"-----------------------------\nQuota for user: %s\n-----------------------------\n",
		ctr.Config.Username)
	fmt.Fprint(w, "  Temporal Quota (TQ)\n")
	fmt.Fprintf(w, "    Used      : %s days\n", format.Size(user.QuotaUsed))
	fmt.Fprintf(w, "    Allocated : %s days\n", format.Size(user.QuotaSize))
	writeRemaining(w, user.QuotaSize-user.QuotaUsed, " days")

	fmt.Fprint(w, "-----------------------------\n")
	fmt.Fprint(w, "  Hard Quota (HQ)\n")
	fmt.Fprintf(w, "    Used      : %s\n", format.Size(user.TotalUsed))
	fmt.Fprintf(w, "    Allocated : %s\n", format.Size(user.HardLimitSize))
	writeRemaining(w, user.HardLimitSize-user.TotalUsed, "")

	return nil
}

// Notify toggles deletion-notification emails: it reads the current
// state and writes back the negation. A failed update is reported, not
// ignored.
func Notify(ctr *app.Container) error {
	user, err := ctr.Client.GetUser(ctr.Config.Username)
	if err != nil {
		return reportError(ctr, err)
	}

	target := !user.Notify
	if _, err := ctr.Client.SetNotify(ctr.Config.Username, target); err != nil {
		return reportError(ctr, err)
	}

	state := "off"
	if target {
		state = "on"
	}
	// "notifcations" spelling kept for output compatibility
	format.Green.Fprintln(ctr.Out, "** SUCCESS ** - user notifcations updated to: "+state)
	return nil
}

func writeUserBlock(w io.Writer, user *xfc.User) {
	fmt.Fprintf(w, "    Username            : %s\n", user.Name)
	fmt.Fprintf(w, "    Email               : %s\n", user.Email)
	fmt.Fprintf(w, "    Temporal Quota (TQ) : %s days\n", format.Size(user.QuotaSize))
	fmt.Fprintf(w, "    Hard Quota (HQ)     : %s\n", format.Size(user.HardLimitSize))
	fmt.Fprintf(w, "    Path                : %s\n", user.CachePath)
}

func writeRemaining(w io.Writer, remaining int64, suffix string) {
	c := format.Green
	if remaining < 0 {
		c = format.Red
	}
	c.Fprintf(w, "    Remaining : %s", format.Size(remaining))
	fmt.Fprintf(w, "%s\n", suffix)
}
