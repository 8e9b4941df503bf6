package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/pomo"
)

type templatesModel struct {
	session *pomo.Session
	width   int
	height  int

	cursor int

	formActive bool
	form       *huh.Form
	formName   *string
}

func newTemplatesModel(s *pomo.Session) templatesModel {
	name := ""
	return templatesModel{session: s, formName: &name}
}

func (m *templatesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m templatesModel) update(msg tea.Msg) (templatesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	templates := m.session.Templates()
	if m.cursor >= len(templates) {
		m.cursor = max(0, len(templates)-1)
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(templates)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		if len(m.session.Tasks()) == 0 {
			return m, statusCmd("Add some tasks before saving a template")
		}
		return m.showForm()
	case key.Matches(keyMsg, keys.Enter):
		if len(templates) == 0 {
			return m, nil
		}
		tpl := templates[m.cursor]
		created, err := m.session.ApplyTemplate(tpl.ID)
		if err != nil {
			return m, errorCmd(err)
		}
		return m, statusCmd(fmt.Sprintf("Added %d tasks from %s", len(created), tpl.Name))
	case key.Matches(keyMsg, keys.Delete):
		if len(templates) == 0 {
			return m, nil
		}
		tpl := templates[m.cursor]
		if err := m.session.DeleteTemplate(tpl.ID); err != nil {
			if errors.Is(err, pomo.ErrNotAllowed) {
				return m, func() tea.Msg {
					return statusMsg{text: "Built-in templates cannot be deleted", isError: true}
				}
			}
			return m, errorCmd(err)
		}
		if m.cursor > 0 && m.cursor >= len(templates)-1 {
			m.cursor--
		}
		return m, statusCmd("Deleted template " + tpl.Name)
	}
	return m, nil
}

func (m templatesModel) showForm() (templatesModel, tea.Cmd) {
	*m.formName = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template name").
				Description("Saves the current task list").
				Value(m.formName).
				Validate(requireText),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m templatesModel) updateForm(msg tea.Msg) (templatesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		tpl, err := m.session.SaveTemplate(*m.formName)
		if err != nil {
			return m, errorCmd(err)
		}
		m.cursor = len(m.session.Templates()) - 1
		return m, statusCmd(fmt.Sprintf("Saved template %s (%d tasks)", tpl.Name, len(tpl.Tasks)))
	}
	return m, cmd
}

func (m templatesModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Save Template"), "", m.form.View()),
		)
	}

	templates := m.session.Templates()
	var rows []string
	rows = append(rows, titleStyle.Render("Templates"), "")

	for i, tpl := range templates {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		tag := ""
		if tpl.BuiltIn {
			tag = mutedStyle.Render(" built-in")
		}
		units := 0
		for _, bp := range tpl.Tasks {
			units += bp.Estimated
		}
		summary := mutedStyle.Render(fmt.Sprintf("  %d tasks, %d pomodoros", len(tpl.Tasks), units))
		rows = append(rows, style.Render(cursor+tpl.Name)+tag+summary)

		if i == m.cursor {
			for _, bp := range tpl.Tasks {
				project := ""
				if bp.Project != "" {
					project = mutedStyle.Render(" [" + bp.Project + "]")
				}
				rows = append(rows, fmt.Sprintf("      • %s %s%s",
					bp.Title, highlightStyle.Render(fmt.Sprintf("×%d", bp.Estimated)), project))
			}
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: apply  n: save current tasks  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
