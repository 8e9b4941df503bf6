package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/pomo/internal/pomo"
	"gopkg.in/yaml.v3"
)

type templateFile struct {
	Version   int            `yaml:"version"`
	Templates []templateYAML `yaml:"templates"`
}

type templateYAML struct {
	Name  string          `yaml:"name"`
	Tasks []blueprintYAML `yaml:"tasks"`
}

type blueprintYAML struct {
	Title     string `yaml:"title"`
	Estimated int    `yaml:"estimated"`
	Project   string `yaml:"project,omitempty"`
	Notes     string `yaml:"notes,omitempty"`
}

// TemplatesToYAML writes templates to path. Identifiers are not exported;
// imports always assign fresh ones.
func TemplatesToYAML(templates []pomo.Template, path string) error {
	file := templateFile{Version: 1}
	for _, t := range templates {
		ty := templateYAML{Name: t.Name}
		for _, bp := range t.Tasks {
			ty.Tasks = append(ty.Tasks, blueprintYAML{
				Title:     bp.Title,
				Estimated: bp.Estimated,
				Project:   bp.Project,
				Notes:     bp.Notes,
			})
		}
		file.Templates = append(file.Templates, ty)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshal templates: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write templates file: %w", err)
	}
	return nil
}

// ImportedTemplate is a template read from a file, not yet stored.
type ImportedTemplate struct {
	Name  string
	Tasks []pomo.Blueprint
}

// TemplatesFromYAML reads templates from path. Entries with an empty name or
// no usable blueprints are skipped, as are blueprints without a title.
// Estimates below one are raised to one.
func TemplatesFromYAML(path string) ([]ImportedTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates file: %w", err)
	}

	var out []ImportedTemplate
	for _, ty := range file.Templates {
		name := strings.TrimSpace(ty.Name)
		if name == "" {
			continue
		}
		it := ImportedTemplate{Name: name}
		for _, b := range ty.Tasks {
			title := strings.TrimSpace(b.Title)
			if title == "" {
				continue
			}
			est := b.Estimated
			if est < 1 {
				est = 1
			}
			it.Tasks = append(it.Tasks, pomo.Blueprint{
				Title:     title,
				Estimated: est,
				Project:   b.Project,
				Notes:     b.Notes,
			})
		}
		if len(it.Tasks) == 0 {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
