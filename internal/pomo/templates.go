package pomo

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BuiltInPrefix marks identifiers of the shipped templates.
const BuiltInPrefix = "pre-"

var builtInTemplates = []Template{
	{
		ID:      "pre-deep-work",
		Name:    "Deep Work Morning",
		BuiltIn: true,
		Tasks: []Blueprint{
			{Title: "Crucial Task #1", Estimated: 4, Project: "Focus"},
			{Title: "Email Triage", Estimated: 1, Project: "Admin"},
			{Title: "Planning Tomorrow", Estimated: 1, Project: "Admin"},
		},
	},
	{
		ID:      "pre-student",
		Name:    "Study Sprint",
		BuiltIn: true,
		Tasks: []Blueprint{
			{Title: "Active Recall Session", Estimated: 3, Project: "Learning"},
			{Title: "Practice Problems", Estimated: 2, Project: "Learning"},
			{Title: "Summary Notes", Estimated: 1, Project: "Review"},
		},
	},
	{
		ID:      "pre-health",
		Name:    "Healthy Home",
		BuiltIn: true,
		Tasks: []Blueprint{
			{Title: "Quick Tidy Up", Estimated: 1, Project: "Home"},
			{Title: "Weekly Prep", Estimated: 2, Project: "Home"},
			{Title: "Read 20 Pages", Estimated: 1, Project: "Personal"},
		},
	},
}

// BuiltInTemplates returns a copy of the shipped template catalog.
func BuiltInTemplates() []Template {
	out := make([]Template, len(builtInTemplates))
	for i, t := range builtInTemplates {
		out[i] = t.clone()
	}
	return out
}

func (t Template) clone() Template {
	t.Tasks = append([]Blueprint(nil), t.Tasks...)
	return t
}

// TemplateStore holds user templates. Built-ins are merged in by All and
// are never stored or deleted.
type TemplateStore struct {
	user  []Template
	newID func() string
}

func NewTemplateStore(user []Template) *TemplateStore {
	ts := &TemplateStore{newID: uuid.NewString}
	for _, t := range user {
		if t.BuiltIn || strings.HasPrefix(t.ID, BuiltInPrefix) {
			continue
		}
		ts.user = append(ts.user, t.clone())
	}
	return ts
}

// All returns the built-in catalog followed by user templates.
func (ts *TemplateStore) All() []Template {
	out := BuiltInTemplates()
	return append(out, ts.User()...)
}

func (ts *TemplateStore) User() []Template {
	out := make([]Template, len(ts.user))
	for i, t := range ts.user {
		out[i] = t.clone()
	}
	return out
}

func (ts *TemplateStore) Find(id string) (Template, bool) {
	for _, t := range ts.All() {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// SaveFrom snapshots the title, estimate, project and notes of tasks into a
// new user template.
func (ts *TemplateStore) SaveFrom(name string, tasks []Task) (Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Template{}, fmt.Errorf("empty template name: %w", ErrInvalid)
	}
	if len(tasks) == 0 {
		return Template{}, fmt.Errorf("no tasks to save: %w", ErrInvalid)
	}
	tpl := Template{ID: ts.newID(), Name: name}
	for _, t := range tasks {
		tpl.Tasks = append(tpl.Tasks, Blueprint{
			Title:     t.Title,
			Estimated: t.Estimated,
			Project:   t.Project,
			Notes:     t.Notes,
		})
	}
	ts.user = append(ts.user, tpl)
	return tpl.clone(), nil
}

// Import adds a user template with a fresh identifier.
func (ts *TemplateStore) Import(name string, bps []Blueprint) (Template, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(bps) == 0 {
		return Template{}, fmt.Errorf("template %q: %w", name, ErrInvalid)
	}
	tpl := Template{ID: ts.newID(), Name: name, Tasks: append([]Blueprint(nil), bps...)}
	ts.user = append(ts.user, tpl)
	return tpl.clone(), nil
}

func (ts *TemplateStore) Delete(id string) error {
	for i, t := range ts.user {
		if t.ID == id {
			ts.user = append(ts.user[:i], ts.user[i+1:]...)
			return nil
		}
	}
	if strings.HasPrefix(id, BuiltInPrefix) {
		return ErrNotAllowed
	}
	return ErrNotFound
}
