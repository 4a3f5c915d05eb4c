// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

// RenderBuildInfo renders the client build metadata next to the state the
// server reports. An empty server means the server was not reached.
func RenderBuildInfo(info models.AppBuildInfo, server string) string {
	var b strings.Builder

	b.WriteString("Application: go-task-sync\n")
	b.WriteString("Version: ")
	b.WriteString(valueOrNA(info.BuildVersion()))
	b.WriteString("\n")
	b.WriteString("Date: ")
	b.WriteString(valueOrNA(info.BuildDate()))
	b.WriteString("\n")
	b.WriteString("Commit: ")
	b.WriteString(valueOrNA(info.BuildCommit()))
	b.WriteString("\n")
	b.WriteString("Server: ")
	b.WriteString(valueOrNA(server))

	return renderPage("ABOUT", b.String(), "")
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
