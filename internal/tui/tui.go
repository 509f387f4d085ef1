// Package tui is the terminal client for todobase. It invokes the todo
// service directly, the same code path the web UI's server actions take, so
// it bypasses the HTTP API key guard entirely. It is only runnable where the
// store credentials already live; that trust asymmetry is deliberate.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todobase/internal/todo"
)

// listItem adapts a todo row to bubbles/list.Item.
type listItem struct {
	row todo.Todo
}

func (i listItem) Title() string {
	box := boxUnchecked
	if i.row.Completed {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.row.Title)
}

func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.row.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := mutedStyle.Render(boxUnchecked)
	text := it.row.Title
	if it.row.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type Model struct {
	svc  *todo.Service
	user string

	list list.Model
	ti   textinput.Model

	adding  bool
	editing bool
	editID  string
	errMsg  string
}

// New loads the user's todos and builds the initial model.
func New(svc *todo.Service, user string) (Model, error) {
	m := Model{svc: svc, user: user}

	todos, err := svc.List(context.Background(), user)
	if err != nil {
		return Model{}, err
	}

	l := list.New(toItems(todos), itemDelegate{}, 0, 0)
	l.Title = titleStyle.Render(fmt.Sprintf("Todos (%s)", user))
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("todo", "todos")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind := key.NewBinding(key.WithKeys("x"), key.WithHelp("x/space", "toggle"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	extra := func() []key.Binding { return []key.Binding{addBind, editBind, toggleBind, delBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	m.list = l

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New todo title..."
	m.ti.CharLimit = 200

	return m, nil
}

// Run starts the Bubble Tea program.
func Run(svc *todo.Service, user string) error {
	m, err := New(svc, user)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func toItems(todos []todo.Todo) []list.Item {
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{row: t})
	}
	return items
}

// reload re-reads the list from the store. Every mutation is followed by a
// reload; the store is the only source of truth, nothing is kept in-process.
func (m *Model) reload() {
	todos, err := m.svc.List(context.Background(), m.user)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.list.SetItems(toItems(todos))
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(x.Width, x.Height-1)
		return m, nil

	case tea.KeyMsg:
		switch x.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.adding = true
			m.errMsg = ""
			m.ti.Placeholder = "New todo title..."
			m.ti.SetValue("")
			m.ti.Focus()
			return m, textinput.Blink
		case "e":
			it, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			m.editing = true
			m.editID = it.row.ID
			m.errMsg = ""
			m.ti.Placeholder = "Edit title..."
			m.ti.SetValue(it.row.Title)
			m.ti.Focus()
			return m, textinput.Blink
		case " ", "x":
			it, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			if _, err := m.svc.Toggle(context.Background(), it.row.ID, !it.row.Completed); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.reload()
			return m, nil
		case "d":
			it, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			if err := m.svc.Delete(context.Background(), it.row.ID); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.reload()
			return m, nil
		case "r":
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.KeyMsg:
		switch x.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.errMsg = "title cannot be empty"
				return m, nil
			}
			var err error
			if m.adding {
				_, err = m.svc.Create(context.Background(), title, m.user)
			} else {
				_, err = m.svc.Update(context.Background(), m.editID, todo.Patch{Title: &title})
			}
			if err != nil {
				m.errMsg = err.Error()
			} else {
				m.errMsg = ""
				m.reload()
			}
			m.adding = false
			m.editing = false
			m.ti.Blur()
			return m, nil
		case "esc":
			m.adding = false
			m.editing = false
			m.errMsg = ""
			m.ti.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	if m.adding || m.editing {
		b.WriteString("\n" + m.ti.View())
	} else if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.errMsg))
	}
	return b.String()
}
