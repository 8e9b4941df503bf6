package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/pomo"
)

type tasksModel struct {
	session *pomo.Session
	width   int
	height  int

	cursor     int
	subCursor  int
	inSubtasks bool // true = cursor moves through the open task's subtasks

	formActive bool
	form       *huh.Form
	editingID  string // empty when creating

	// Form field pointers (survive value copies)
	formTitle    *string
	formEstimate *string
	formProject  *string
	formNotes    *string
	formSubtasks *string
}

func newTasksModel(s *pomo.Session) tasksModel {
	title, est, project, notes, subs := "", "1", "", "", ""
	return tasksModel{
		session:      s,
		formTitle:    &title,
		formEstimate: &est,
		formProject:  &project,
		formNotes:    &notes,
		formSubtasks: &subs,
	}
}

func (p *tasksModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p tasksModel) current() (pomo.Task, bool) {
	tasks := p.session.Tasks()
	if p.cursor < 0 || p.cursor >= len(tasks) {
		return pomo.Task{}, false
	}
	return tasks[p.cursor], true
}

// clamp keeps the cursors inside the task list after it changed.
func (p *tasksModel) clamp() {
	n := len(p.session.Tasks())
	if p.cursor >= n {
		p.cursor = max(0, n-1)
	}
	t, ok := p.current()
	if !ok || len(t.SubTasks) == 0 {
		p.inSubtasks = false
		p.subCursor = 0
		return
	}
	if p.subCursor >= len(t.SubTasks) {
		p.subCursor = len(t.SubTasks) - 1
	}
}

func (p tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	p.clamp()
	if p.inSubtasks {
		return p.updateSubtasks(keyMsg)
	}
	return p.updateList(keyMsg)
}

func (p tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	tasks := p.session.Tasks()
	task, ok := p.current()

	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(tasks)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.New):
		return p.showForm(pomo.Task{})
	case !ok:
		return p, nil

	case key.Matches(msg, keys.Enter):
		if task.Completed {
			return p, statusCmd("Completed tasks cannot be focused")
		}
		if err := p.session.SelectTask(task.ID); err != nil {
			return p, errorCmd(err)
		}
		return p, statusCmd("Focusing on " + task.Title)
	case key.Matches(msg, keys.Edit):
		return p.showForm(task)
	case key.Matches(msg, keys.Complete):
		if err := p.session.ToggleComplete(task.ID); err != nil {
			return p, errorCmd(err)
		}
	case key.Matches(msg, keys.Delete):
		if err := p.session.DeleteTask(task.ID); err != nil {
			return p, errorCmd(err)
		}
		p.clamp()
		return p, statusCmd("Deleted " + task.Title)
	case key.Matches(msg, keys.MoveUp):
		if p.session.MoveTask(p.cursor, -1) == nil {
			p.cursor--
		}
	case key.Matches(msg, keys.MoveDown):
		if p.session.MoveTask(p.cursor, 1) == nil {
			p.cursor++
		}
	case key.Matches(msg, keys.Right):
		if len(task.SubTasks) > 0 {
			p.inSubtasks = true
			p.subCursor = 0
		}
	}
	return p, nil
}

func (p tasksModel) updateSubtasks(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	task, _ := p.current()
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Left):
		p.inSubtasks = false
	case key.Matches(msg, keys.Up):
		if p.subCursor > 0 {
			p.subCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.subCursor < len(task.SubTasks)-1 {
			p.subCursor++
		}
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Complete), key.Matches(msg, keys.Enter):
		sub := task.SubTasks[p.subCursor]
		if err := p.session.ToggleSubTask(task.ID, sub.ID); err != nil {
			return p, errorCmd(err)
		}
	}
	return p, nil
}

func (p tasksModel) showForm(t pomo.Task) (tasksModel, tea.Cmd) {
	p.editingID = t.ID
	*p.formTitle = t.Title
	*p.formEstimate = "1"
	if t.Estimated > 0 {
		*p.formEstimate = strconv.Itoa(t.Estimated)
	}
	*p.formProject = t.Project
	*p.formNotes = t.Notes
	titles := make([]string, len(t.SubTasks))
	for i, st := range t.SubTasks {
		titles[i] = st.Title
	}
	*p.formSubtasks = strings.Join(titles, "\n")

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(p.formTitle).Validate(requireText),
			huh.NewInput().Title("Estimated pomodoros").Value(p.formEstimate).Validate(requirePositive),
			huh.NewInput().Title("Project").Value(p.formProject),
			huh.NewText().Title("Notes").Lines(3).Value(p.formNotes),
			huh.NewText().Title("Subtasks (one per line)").Lines(4).Value(p.formSubtasks),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, p.submitForm()
	}
	return p, cmd
}

func (p tasksModel) submitForm() tea.Cmd {
	est, err := strconv.Atoi(strings.TrimSpace(*p.formEstimate))
	if err != nil {
		return errorCmd(fmt.Errorf("estimate %q: %w", *p.formEstimate, pomo.ErrInvalid))
	}
	project := strings.TrimSpace(*p.formProject)
	notes := strings.TrimSpace(*p.formNotes)

	if p.editingID == "" {
		t, err := p.session.AddTask(*p.formTitle, est, project, notes, parseSubTasks(*p.formSubtasks, nil))
		if err != nil {
			return errorCmd(err)
		}
		return statusCmd("Added " + t.Title)
	}

	var existing []pomo.SubTask
	for _, t := range p.session.Tasks() {
		if t.ID == p.editingID {
			existing = t.SubTasks
		}
	}
	title := *p.formTitle
	patch := pomo.TaskPatch{
		Title:     &title,
		Project:   &project,
		Notes:     &notes,
		Estimated: &est,
		SubTasks:  parseSubTasks(*p.formSubtasks, existing),
	}
	if err := p.session.UpdateTask(p.editingID, patch); err != nil {
		return errorCmd(err)
	}
	return statusCmd("Updated " + strings.TrimSpace(title))
}

// parseSubTasks reads one subtask per line. Lines matching an existing
// subtask title keep its id and completion state. The result is never nil
// so an emptied list clears the subtasks.
func parseSubTasks(text string, existing []pomo.SubTask) []pomo.SubTask {
	byTitle := make(map[string]pomo.SubTask, len(existing))
	for _, st := range existing {
		byTitle[st.Title] = st
	}
	out := []pomo.SubTask{}
	for _, line := range strings.Split(text, "\n") {
		title := strings.TrimSpace(line)
		if title == "" {
			continue
		}
		if st, ok := byTitle[title]; ok {
			out = append(out, st)
			delete(byTitle, title)
			continue
		}
		out = append(out, pomo.SubTask{Title: title})
	}
	return out
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func requirePositive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number above zero")
	}
	return nil
}

func (p tasksModel) view() string {
	w := p.width - 4
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Task")
		if p.editingID != "" {
			title = titleStyle.Render("Edit Task")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()))
	}

	tasks := p.session.Tasks()
	completed, total := p.session.TaskStats()
	title := titleStyle.Render("Tasks") + mutedStyle.Render(fmt.Sprintf("  %d/%d done", completed, total))

	if len(tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one or apply a template."),
		)
		return panelStyle.Width(w).Render(content)
	}

	active, hasActive := p.session.ActiveTask()
	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-32s %-14s %s", "", "Task", "Project", "Pomodoros")))

	for i, t := range tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor && !p.inSubtasks {
			cursor = "> "
			style = selectedItemStyle
		}
		if t.Completed {
			style = doneItemStyle
		}
		check := "[ ]"
		if t.Completed {
			check = successStyle.Render("[✓]")
		}
		marker := " "
		if hasActive && active.ID == t.ID {
			marker = accentStyle.Render("●")
		}
		count := fmt.Sprintf("%d/%d", t.Done, t.Estimated)
		if t.Done > t.Estimated {
			count = warningStyle.Render(count)
		}
		rows = append(rows, fmt.Sprintf("%s%s %s %s %s",
			cursor, marker, check, style.Render(fmt.Sprintf("%-32s", truncate(t.Title, 32))),
			mutedStyle.Render(fmt.Sprintf("%-14s", truncate(t.Project, 14)))+" "+count,
		))

		if i == p.cursor {
			rows = append(rows, p.renderDetails(t)...)
		}
	}

	rows = append(rows, "")
	hint := "  n: new  e: edit  c: done  d: delete  enter: focus  K/J: move  →: subtasks"
	if p.inSubtasks {
		hint = "  space: toggle subtask  ←/esc: back"
	}
	rows = append(rows, mutedStyle.Render(hint))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p tasksModel) renderDetails(t pomo.Task) []string {
	var rows []string
	if t.Notes != "" {
		rows = append(rows, subtitleStyle.Render("        "+truncate(t.Notes, 60)))
	}
	for j, st := range t.SubTasks {
		cursor := "  "
		if p.inSubtasks && j == p.subCursor {
			cursor = "> "
		}
		box := "○"
		style := normalItemStyle
		if st.Completed {
			box = successStyle.Render("●")
			style = doneItemStyle
		}
		rows = append(rows, fmt.Sprintf("      %s%s %s", cursor, box, style.Render(st.Title)))
	}
	return rows
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
