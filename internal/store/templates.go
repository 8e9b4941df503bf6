package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/pomo/internal/pomo"
)

// LoadTemplates returns the user templates. Built-ins are never stored.
func (s *Store) LoadTemplates() ([]pomo.Template, error) {
	rows, err := s.db.Query(`SELECT id, name FROM templates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []pomo.Template
	index := make(map[string]int)
	for rows.Next() {
		var t pomo.Template
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		index[t.ID] = len(templates)
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(templates) == 0 {
		return nil, nil
	}

	bps, err := s.db.Query(
		`SELECT template_id, title, estimated, project, notes
		 FROM template_tasks ORDER BY template_id, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list template tasks: %w", err)
	}
	defer bps.Close()

	for bps.Next() {
		var id string
		var bp pomo.Blueprint
		if err := bps.Scan(&id, &bp.Title, &bp.Estimated, &bp.Project, &bp.Notes); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			templates[i].Tasks = append(templates[i].Tasks, bp)
		}
	}
	return templates, bps.Err()
}

// SaveTemplates replaces the stored user templates. Built-ins are skipped.
func (s *Store) SaveTemplates(templates []pomo.Template) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM templates`); err != nil {
			return fmt.Errorf("clear templates: %w", err)
		}
		pos := 0
		for _, t := range templates {
			if t.BuiltIn {
				continue
			}
			if _, err := tx.Exec(`INSERT INTO templates (id, position, name) VALUES (?, ?, ?)`, t.ID, pos, t.Name); err != nil {
				return fmt.Errorf("insert template %s: %w", t.ID, err)
			}
			pos++
			for j, bp := range t.Tasks {
				_, err := tx.Exec(
					`INSERT INTO template_tasks (template_id, position, title, estimated, project, notes)
					 VALUES (?, ?, ?, ?, ?, ?)`,
					t.ID, j, bp.Title, bp.Estimated, bp.Project, bp.Notes,
				)
				if err != nil {
					return fmt.Errorf("insert template task: %w", err)
				}
			}
		}
		return nil
	})
}
