package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/logger"
	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/prompt"
	"github.com/julianstephens/weekmenu/internal/rowedit"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.column.SetSize(columnWidth(msg.Width))
		return m, nil
	case confirmRequestMsg:
		return m.openConfirm(msg)
	case statusMsg:
		if msg.clear {
			m.status = ""
		} else {
			m.status, m.severity = msg.message, msg.severity
		}
		return m, nil
	case loggedOutMsg:
		m.loggedOut = true
		m.status, m.severity = constants.MsgLoggedOut, rowedit.SeverityWarning
		return m, nil
	case jobDoneMsg:
		m.finish(msg)
		return m, waitForResult(m.results)
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.mode {
		case modeEditing:
			return m.updateEditing(msg)
		case modePicking:
			return m.updatePicking(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.mode != modeBrowse {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := len(m.current().Rows())

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.moveDay(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveDay(1)
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < rows {
			m.row++
		}
	case key.Matches(msg, m.keys.Reload):
		if m.enqueue(loadJob(m.board, m.fetcher)) {
			m.loading = true
		}
	case key.Matches(msg, m.keys.Add):
		m.row = rows
		return m.startCompose()
	case key.Matches(msg, m.keys.Edit):
		if m.row < rows {
			return m.startEdit()
		}
		return m.startCompose()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Leave), msg.Type == tea.KeyEnter:
		m.enqueue(leaveJob(m.current()))
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.enqueue(cancelJob(m.current()))
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Pick), msg.Type == tea.KeyDown:
		if len(m.visibleSuggestions()) > 0 {
			m.mode = modePicking
			m.pick = 0
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != before {
		m.enqueue(typeJob(m.current(), text, m.composing))
	}
	return m, cmd
}

func (m Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.visibleSuggestions()
	if len(names) == 0 {
		m.mode, m.pick = modeEditing, -1
		return m.updateEditing(msg)
	}
	if m.pick >= len(names) {
		m.pick = len(names) - 1
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case msg.Type == tea.KeyUp:
		if m.pick > 0 {
			m.pick--
		} else {
			m.mode, m.pick = modeEditing, -1
		}
	case msg.Type == tea.KeyDown:
		if m.pick < len(names)-1 {
			m.pick++
		}
	case key.Matches(msg, m.keys.Pick), key.Matches(msg, m.keys.Leave):
		m.mode, m.pick = modeEditing, -1
	case key.Matches(msg, m.keys.Cancel):
		m.enqueue(cancelJob(m.current()))
		m.stopEditing()
	case msg.Type == tea.KeyEnter:
		m.enqueue(pickJob(m.current(), names[m.pick], m.composing))
		m.stopEditing()
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.answerConfirm(false)
		return m, nil
	}

	form, cmd := m.confirm.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm.form = f
	}

	switch m.confirm.form.State {
	case huh.StateCompleted:
		m.answerConfirm(m.confirm.answer)
	case huh.StateAborted:
		m.answerConfirm(false)
	}
	return m, cmd
}

func (m Model) openConfirm(msg confirmRequestMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		msg.reply <- false
		return m, nil
	}
	p := &confirmPrompt{reply: msg.reply}
	p.form = prompt.NewConfirmForm(msg.message, &p.answer)
	m.confirm = p
	return m, p.form.Init()
}

func (m *Model) answerConfirm(answer bool) {
	m.confirm.reply <- answer
	m.confirm = nil
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	c := m.current()
	rows := c.Rows()
	if !m.enqueue(enterJob(c, m.row)) {
		return m, nil
	}
	m.mode, m.composing, m.pick = modeEditing, false, -1
	m.input.SetValue(rows[m.row].DisplayName)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// startCompose focuses the add slot. The composition itself opens with the
// first keystroke.
func (m Model) startCompose() (tea.Model, tea.Cmd) {
	m.mode, m.composing, m.pick = modeEditing, true, -1
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m *Model) stopEditing() {
	m.mode, m.composing, m.pick = modeBrowse, false, -1
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) moveDay(delta int) {
	n := len(models.Weekdays)
	m.day = (m.day + delta + n) % n
	m.clampRow()
}

func (m *Model) clampRow() {
	if rows := len(m.current().Rows()); m.row > rows {
		m.row = rows
	}
}

func (m Model) visibleSuggestions() []string {
	v := m.current().View()
	if m.composing {
		if v.ComposeSuggestionsVisible {
			return v.Suggestions
		}
		return nil
	}
	if v.EditingIndex >= 0 && v.Rows[v.EditingIndex].State.SuggestionsVisible() {
		return v.Suggestions
	}
	return nil
}

func (m *Model) finish(msg jobDoneMsg) {
	if m.pending > 0 {
		m.pending--
	}

	switch msg.op {
	case opLoad:
		m.loading = false
		if msg.err != nil {
			logger.Warn("Failed to load week menu", "error", msg.err)
			m.status, m.severity = apiclient.UserMessage(msg.err), rowedit.SeverityError
		}
	case opSuggest:
		if msg.err != nil {
			logger.Debug("Suggestion lookup failed", "weekday", msg.day, "error", msg.err)
			m.status, m.severity = msg.err.Error(), rowedit.SeverityWarning
		}
	case opLeave:
		switch {
		case msg.err != nil:
			m.status, m.severity = msg.err.Error(), rowedit.SeverityError
		case msg.outcome == rowedit.OutcomeCommitted:
			m.status, m.severity = "Saved.", rowedit.SeveritySuccess
		case msg.outcome == rowedit.OutcomeReverted:
			m.status, m.severity = "Change discarded.", rowedit.SeverityInfo
		}
	}

	m.clampRow()
	// The canonical week may have been replaced under an open edit.
	if m.pending == 0 && m.mode != modeBrowse && !m.current().Editing() && !(m.composing && m.input.Value() == "") {
		m.stopEditing()
	}
}
