package ui

import (
	"fmt"
	"strings"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/form"
	"github.com/nudibranch/nudi/cli/internal/ui/components"
)

// RenderForm previews a form before it is submitted: its target, every
// field with its current value, and the files that will be resolved.
func RenderForm(title string, f form.Form, width int) string {
	method := f.Method
	if method == "" {
		method = "POST"
	}
	header := MutedStyle.Render(strings.ToUpper(method)+" ") + LinkStyle.Render(components.SanitizeOneLine(f.Action))

	if len(f.Fields) == 0 {
		return components.TitledBox(title, header+"\n\n"+MutedStyle.Render("no fields"), width)
	}

	contentWidth := components.BoxContentWidth(width)
	lines := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		label, value := fieldLabel(field), fieldValue(field)
		if contentWidth > 0 {
			value = components.ClampTextWidth(value, max(contentWidth-len(label)-2, 4))
		}
		lines = append(lines, components.InfoRow(label, value))
	}
	body := header + "\n\n" + strings.Join(lines, "\n")
	return components.TitledBox(title, body, width)
}

func fieldLabel(field form.Field) string {
	if field.Label != "" && field.Label != field.Name {
		return fmt.Sprintf("%s (%s)", field.Name, field.Label)
	}
	return field.Name
}

func fieldValue(field form.Field) string {
	switch {
	case field.Disabled:
		return "(disabled)"
	case field.IsFile():
		path, ok := field.Selected()
		if !ok {
			return "(no file)"
		}
		return "file " + path
	case field.Type == form.FieldCheckbox || field.Type == form.FieldRadio:
		mark := "[ ]"
		if field.Checked {
			mark = "[x]"
		}
		return mark + " " + field.Value
	case field.Type == form.FieldPassword:
		return strings.Repeat("*", len(field.Value))
	}
	return field.Value
}

// RenderProject shows a project and its testables.
func RenderProject(info *api.ProjectInfo, width int) string {
	title := fmt.Sprintf("Project %d", info.ID)
	var b strings.Builder
	b.WriteString(components.InfoRow("Name", info.Name))
	b.WriteString("\n")
	b.WriteString(components.InfoRow("Edit", api.ProjectEditURL(info.ID)))

	if len(info.Testables) == 0 {
		b.WriteString("\n\n" + MutedStyle.Render("no testables"))
		return components.TitledBox(title, b.String(), width)
	}

	names := info.TestableNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		t := info.Testables[name]
		rows = append(rows, []string{fmt.Sprintf("%d", t.ID), name, fmt.Sprintf("%d", len(t.TestCases))})
	}
	tableWidth := components.BoxContentWidth(width)
	if tableWidth <= 0 {
		tableWidth = 60
	}
	cols := []components.TableColumn{
		{Header: "ID", Width: 6},
		{Header: "Testable", Width: 24},
		{Header: "Test Cases", Width: 10},
	}
	b.WriteString("\n\n")
	b.WriteString(components.TableGrid(cols, rows, tableWidth))
	return components.TitledBox(title, b.String(), width)
}
