// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

// RenderSyncReport renders the outcome of one sync cycle. A non-nil err is
// shown below whatever part of the cycle completed.
func RenderSyncReport(report models.SyncReport, err error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pulled:    %d (applied %d)\n", report.Pulled, report.Applied)
	fmt.Fprintf(&b, "Pushed:    %d\n", report.Pushed)
	fmt.Fprintf(&b, "Conflicts: %d\n", len(report.Conflicts))
	for _, c := range report.Conflicts {
		fmt.Fprintf(&b, "  %s %s  local %s  server %s\n",
			c.EntityType, fitText(c.EntityID, 36), formatTime(c.LocalModifiedAt), formatTime(c.ServerModifiedAt))
	}

	fmt.Fprintf(&b, "Errors:    %d\n", len(report.Errors))
	for _, e := range report.Errors {
		retry := ""
		if e.Retryable {
			retry = " (will retry)"
		}
		fmt.Fprintf(&b, "  #%d %s [%s] %s%s\n", e.Index, e.EntityID, e.Code, e.Message, retry)
	}

	if report.Cursor.IsZero() {
		b.WriteString("Cursor:    not advanced")
	} else {
		b.WriteString("Cursor:    " + formatTime(report.Cursor))
	}

	if err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Sync failed: " + humanizeError(err)))
	}

	hint := ""
	if len(report.Conflicts) > 0 {
		hint = "run `conflicts` to resolve"
	}
	return renderPage("SYNC", b.String(), hint)
}
