package tui

import (
	"context"

	"github.com/MKhiriev/go-task-sync/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the interactive parts of the client.
type TUI struct {
	sync    service.ClientSyncService
	records service.ClientRecordService
	options []tea.ProgramOption
}

// New returns a TUI over the client services. options are passed to every
// bubbletea program it starts.
func New(sync service.ClientSyncService, records service.ClientRecordService, options ...tea.ProgramOption) *TUI {
	return &TUI{sync: sync, records: records, options: options}
}

// PickConflicts shows every stored conflict and applies the resolutions the
// user picks. It returns immediately when there is nothing to resolve.
func (t *TUI) PickConflicts(ctx context.Context) (PickerResult, error) {
	model := newConflictPickerModel(ctx, t.sync, t.records)

	finalModel, err := tea.NewProgram(model, t.options...).Run()
	if err != nil {
		return PickerResult{}, err
	}

	result, ok := finalModel.(conflictPickerModel)
	if !ok {
		return PickerResult{}, tea.ErrProgramKilled
	}
	return result.result, nil
}
