// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerResult tells what the user did in the conflict picker.
type PickerResult struct {
	Resolved int
	// Deferred conflicts stay stored and are offered again next time.
	Deferred int
}

// conflictPickerModel lists stored conflicts and resolves the selected one
// with keep_local or keep_server. Skipped conflicts stay in the store.
type conflictPickerModel struct {
	ctx     context.Context
	sync    service.ClientSyncService
	records service.ClientRecordService

	conflicts []models.Conflict
	local     map[string]json.RawMessage
	idx       int

	loading   bool
	resolving bool
	spinner   spinner.Model
	status    string
	overlay   *errorOverlayModel

	result PickerResult
}

func newConflictPickerModel(ctx context.Context, sync service.ClientSyncService, records service.ClientRecordService) conflictPickerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return conflictPickerModel{
		ctx:     ctx,
		sync:    sync,
		records: records,
		loading: true,
		spinner: s,
	}
}

func conflictKey(c models.Conflict) string {
	return string(c.EntityType) + "/" + c.EntityID
}

func (m conflictPickerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadConflicts())
}

func (m conflictPickerModel) loadConflicts() tea.Cmd {
	return func() tea.Msg {
		conflicts, err := m.sync.Conflicts(m.ctx)
		if err != nil {
			return conflictsLoadedMsg{err: err}
		}

		local := make(map[string]json.RawMessage, len(conflicts))
		for _, c := range conflicts {
			rec, err := m.records.Get(m.ctx, c.EntityType, c.EntityID)
			if errors.Is(err, service.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return conflictsLoadedMsg{err: err}
			}
			local[conflictKey(c)] = rec.Data
		}

		return conflictsLoadedMsg{conflicts: conflicts, local: local}
	}
}

func (m conflictPickerModel) resolve(c models.Conflict, resolution models.Resolution) tea.Cmd {
	return func() tea.Msg {
		err := m.sync.Resolve(m.ctx, c.EntityType, c.EntityID, resolution, nil)
		return resolvedMsg{key: conflictKey(c), resolution: resolution, err: err}
	}
}

func (m conflictPickerModel) current() (models.Conflict, bool) {
	if len(m.conflicts) == 0 || m.idx < 0 || m.idx >= len(m.conflicts) {
		return models.Conflict{}, false
	}
	return m.conflicts[m.idx], true
}

// drop removes the conflict under key from the list and keeps the cursor in range.
func (m *conflictPickerModel) drop(key string) {
	for i, c := range m.conflicts {
		if conflictKey(c) == key {
			m.conflicts = slices.Delete(slices.Clone(m.conflicts), i, i+1)
			break
		}
	}
	if m.idx >= len(m.conflicts) {
		m.idx = max(len(m.conflicts)-1, 0)
	}
}

func (m conflictPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case conflictsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: humanizeError(msg.err)}
			return m, nil
		}
		m.conflicts = msg.conflicts
		m.local = msg.local
		if len(m.conflicts) == 0 {
			return m, tea.Quit
		}
		return m, nil

	case resolvedMsg:
		m.resolving = false
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: humanizeError(msg.err)}
			return m, nil
		}
		m.drop(msg.key)
		m.result.Resolved++
		m.status = fmt.Sprintf("%s resolved with %s", msg.key, msg.resolution)
		if len(m.conflicts) == 0 {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m conflictPickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) {
		m.result.Deferred += len(m.conflicts)
		return m, tea.Quit
	}

	if m.overlay != nil {
		if key.Matches(msg, keys.enter, keys.esc) {
			m.overlay = nil
			if m.loading || len(m.conflicts) == 0 {
				return m, tea.Quit
			}
		}
		return m, nil
	}

	if m.loading || m.resolving {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.conflicts)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.keepLocal), key.Matches(msg, keys.keepServer):
		c, ok := m.current()
		if !ok {
			return m, nil
		}
		resolution := models.ResolutionKeepServer
		if key.Matches(msg, keys.keepLocal) {
			resolution = models.ResolutionKeepLocal
		}
		m.resolving = true
		m.status = ""
		return m, m.resolve(c, resolution)
	case key.Matches(msg, keys.skip):
		c, ok := m.current()
		if !ok {
			return m, nil
		}
		m.drop(conflictKey(c))
		m.result.Deferred++
		m.status = conflictKey(c) + " deferred"
		if len(m.conflicts) == 0 {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m conflictPickerModel) View() string {
	if m.overlay != nil {
		return appStyle.Render(m.overlay.View())
	}
	if m.loading {
		return appStyle.Render(m.spinner.View() + " Loading conflicts...")
	}

	var b strings.Builder
	for i, c := range m.conflicts {
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%-8s %s\n", cursor, c.EntityType, fitText(c.EntityID, 40))
	}

	if c, ok := m.current(); ok {
		local := payloadBoxStyle.Render(
			titleStyle.Render("local  "+formatTime(c.LocalModifiedAt)) + "\n" + prettyJSON(m.local[conflictKey(c)]))
		server := payloadBoxStyle.Render(
			titleStyle.Render("server "+formatTime(c.ServerModifiedAt)) + "\n" + prettyJSON(c.ServerPayload))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, local, " ", server))
		b.WriteString("\n")
	}

	if m.resolving {
		b.WriteString("\n" + m.spinner.View() + " Resolving...\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	title := fmt.Sprintf("CONFLICTS (%d)", len(m.conflicts))
	return appStyle.Render(renderPage(title, b.String(), "l keep local  s keep server  d defer  q quit"))
}
