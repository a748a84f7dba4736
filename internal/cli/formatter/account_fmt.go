package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/service"
)

// RenderProfile renders the account box for `being whoami` and the
// profile view. Unset optional fields show as a dim dash.
func RenderProfile(u *domain.User) string {
	age := ""
	if u.Age != nil {
		age = strconv.Itoa(*u.Age)
	}
	rows := [][2]string{
		{"Username", u.Username},
		{"Email", u.Email},
		{"Name", u.Name},
		{"Age", age},
		{"Gender", u.Gender},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		val := Bold(r[1])
		if r[1] == "" {
			val = Dim("-")
		}
		lines = append(lines, fmt.Sprintf("%s %s", Dim(fmt.Sprintf("%-9s", r[0])), val))
	}
	return RenderBox("Account", strings.Join(lines, "\n"))
}

// RenderSyncResult summarizes an outbox replay.
func RenderSyncResult(r service.SyncResult) string {
	if r.Sent == 0 && r.Failed == 0 && r.Remaining == 0 {
		return Success("Nothing to sync.")
	}
	msg := fmt.Sprintf("Synced %s.", Pluralize(r.Sent, "session"))
	if r.Remaining == 0 {
		return Success(msg)
	}
	return Warn(fmt.Sprintf("%s %d still queued.", msg, r.Remaining))
}

// RenderPending is the home-screen note about queued sessions.
func RenderPending(n int) string {
	if n == 0 {
		return ""
	}
	return Warn(Pluralize(n, "session") + " waiting to sync")
}
