package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/pomo/internal/pomo"
)

// LoadTasks returns the task list in store order with subtasks attached.
func (s *Store) LoadTasks() ([]pomo.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, project, notes, estimated, completed, is_completed, created_at
		 FROM tasks ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []pomo.Task
	index := make(map[string]int)
	for rows.Next() {
		var t pomo.Task
		var done int
		var created int64
		if err := rows.Scan(&t.ID, &t.Title, &t.Project, &t.Notes, &t.Estimated, &t.Done, &done, &created); err != nil {
			return nil, err
		}
		t.Completed = done == 1
		t.CreatedAt = fromMillis(created)
		t.SubTasks = []pomo.SubTask{}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(tasks) == 0 {
		return nil, nil
	}

	subs, err := s.db.Query(`SELECT task_id, id, title, is_completed FROM subtasks ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer subs.Close()

	for subs.Next() {
		var taskID string
		var st pomo.SubTask
		var done int
		if err := subs.Scan(&taskID, &st.ID, &st.Title, &done); err != nil {
			return nil, err
		}
		st.Completed = done == 1
		if i, ok := index[taskID]; ok {
			tasks[i].SubTasks = append(tasks[i].SubTasks, st)
		}
	}
	return tasks, subs.Err()
}

// SaveTasks replaces the stored task list with tasks.
func (s *Store) SaveTasks(tasks []pomo.Task) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		for i, t := range tasks {
			_, err := tx.Exec(
				`INSERT INTO tasks (id, position, title, project, notes, estimated, completed, is_completed, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, i, t.Title, t.Project, t.Notes, t.Estimated, t.Done, boolInt(t.Completed), toMillis(t.CreatedAt),
			)
			if err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
			for j, st := range t.SubTasks {
				_, err := tx.Exec(
					`INSERT INTO subtasks (id, task_id, position, title, is_completed) VALUES (?, ?, ?, ?, ?)`,
					st.ID, t.ID, j, st.Title, boolInt(st.Completed),
				)
				if err != nil {
					return fmt.Errorf("insert subtask %s: %w", st.ID, err)
				}
			}
		}
		return nil
	})
}
