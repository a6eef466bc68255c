// Package tui is the terminal listing page: a Bubble Tea model over the
// listing controller.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/ideas/internal/ideas/application"
	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
)

// opDoneMsg reports the completion of a controller operation.
type opDoneMsg struct {
	op  string
	err error
}

// Model is the listing page.
type Model struct {
	ctx    context.Context
	ctrl   *application.Controller
	styles Styles
	now    func() time.Time

	view    application.View
	cursor  int
	mode    mode
	form    form
	target  application.ItemView
	pending int
	status  string

	quitting bool
}

// New creates the listing page over ctrl. ctx bounds every fetch the page
// starts.
func New(ctx context.Context, ctrl *application.Controller) Model {
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		styles:  DefaultStyles(),
		now:     time.Now,
		view:    ctrl.View(),
		pending: 1, // the load started by Init
	}
}

// WithStyles replaces the theme.
func (m Model) WithStyles(st Styles) Model {
	m.styles = st
	return m
}

// Init loads the first page. New already counts it as pending, since Init
// cannot update the model.
func (m Model) Init() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "load", err: ctrl.Reload(ctx)}
	}
}

// run executes fn off the UI goroutine and reports back with opDoneMsg.
func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		return m.handleOpDone(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleOpDone(msg opDoneMsg) Model {
	if m.pending > 0 {
		m.pending--
	}
	switch {
	case application.IsSuperseded(msg.err):
		// A newer operation owns the view.
	case msg.err != nil:
		m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
	default:
		m.status = ""
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	m.view = m.ctrl.View()
	if m.cursor >= len(m.view.Items) {
		m.cursor = max(0, len(m.view.Items)-1)
	}
}

func (m Model) selected() (application.ItemView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Items) {
		return application.ItemView{}, false
	}
	return m.view.Items[m.cursor], true
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "left", "h":
		if m.view.PrevDisabled {
			return m, nil
		}
		m.cursor = 0
		cmd := m.run("previous page", ctrl.PrevPage)
		return m, cmd

	case "right", "l":
		if m.view.NextDisabled {
			return m, nil
		}
		m.cursor = 0
		cmd := m.run("next page", ctrl.NextPage)
		return m, cmd

	case "s":
		order := m.view.Pagination.SortOrder.Toggle()
		m.cursor = 0
		cmd := m.run("sort", func(ctx context.Context) error {
			return ctrl.SetSortOrder(ctx, order)
		})
		return m, cmd

	case "p":
		size := domain.NextPageSize(m.view.Pagination.PageSize)
		m.cursor = 0
		cmd := m.run("page size", func(ctx context.Context) error {
			return ctrl.SetPageSize(ctx, size)
		})
		return m, cmd

	case "r":
		cmd := m.run("reload", ctrl.Reload)
		return m, cmd

	case "e":
		cmd := m.run("edit mode", ctrl.ToggleEditMode)
		return m, cmd

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.view.Items)-1 {
			m.cursor++
		}

	case "a":
		if !m.view.EditMode {
			m.status = "press e to enter edit mode first"
			return m, nil
		}
		m.form = newForm(nil, m.now())
		m.mode = modeForm
		cmd := m.form.focusField(fieldTitle)
		return m, cmd

	case "enter":
		item, ok := m.selected()
		if !m.view.EditMode || !ok {
			return m, nil
		}
		m.form = newForm(&item.Item, m.now())
		m.mode = modeForm
		cmd := m.form.focusField(fieldTitle)
		return m, cmd

	case "d":
		item, ok := m.selected()
		if !m.view.EditMode || !ok {
			return m, nil
		}
		m.target = item
		m.mode = modeConfirmDelete
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil

	case "tab", "down":
		cmd := m.form.focusField(m.form.focus + 1)
		return m, cmd

	case "shift+tab", "up":
		cmd := m.form.focusField(m.form.focus - 1)
		return m, cmd

	case "enter":
		fields, err := m.form.fields()
		if err != nil {
			m.form.err = err
			return m, nil
		}
		m.mode = modeBrowse
		ctrl := m.ctrl
		if id := m.form.editID; id != 0 {
			cmd := m.run("update", func(ctx context.Context) error {
				_, err := ctrl.UpdateItem(ctx, id, fields)
				return err
			})
			return m, cmd
		}
		m.cursor = 0
		cmd := m.run("add", func(ctx context.Context) error {
			_, err := ctrl.AddItem(ctx, fields)
			return err
		})
		return m, cmd
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.mode = modeBrowse
		id := m.target.ID
		ctrl := m.ctrl
		cmd := m.run("delete", func(context.Context) error {
			_, err := ctrl.DeleteItem(id, application.Confirmed)
			return err
		})
		return m, cmd
	case "n", "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

// View renders the page.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	switch m.mode {
	case modeForm:
		b.WriteString(m.form.view(m.styles))
		return b.String()
	default:
		v := m.view
		if m.pending > 0 {
			v.Loading = true
		}
		b.WriteString(Render(v, m.styles, m.cursor))
	}

	if m.mode == modeConfirmDelete {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Delete %q? (y/n)", m.target.Title)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) help() string {
	if m.view.EditMode {
		return "←/→ page • ↑/↓ select • a add • enter edit • d delete • e done editing • q quit"
	}
	return "←/→ page • s sort • p page size • r reload • e edit mode • q quit"
}
