package docscan

import (
	"strings"

	"github.com/erraggy/docschema/schema"
)

// columns maps the header of a property table to cell indexes; -1 marks an
// absent column. An "Optional" column holds the negation of "Required".
type columns struct {
	name, typ, description, required, optional int
}

func columnsOf(header []string) columns {
	cols := columns{name: -1, typ: -1, description: -1, required: -1, optional: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "property", "name", "property name", "relationship":
			cols.name = i
		case "type", "value":
			cols.typ = i
		case "description":
			cols.description = i
		case "required":
			cols.required = i
		case "optional":
			cols.optional = i
		}
	}
	return cols
}

func (c columns) valid() bool {
	return c.name >= 0 && c.typ >= 0
}

// descriptor builds the field descriptor of one table row.
func (c columns) descriptor(cells []string, navigable bool) (schema.FieldDescriptor, bool) {
	name := cell(cells, c.name)
	if name == "" {
		return schema.FieldDescriptor{}, false
	}
	fd := schema.FieldDescriptor{
		Name:        name,
		Type:        cell(cells, c.typ),
		Description: cell(cells, c.description),
		Required:    requiredFlag(cell(cells, c.required)),
		Navigable:   navigable,
	}
	if fd.Required == nil {
		fd.Required = optionalFlag(cell(cells, c.optional))
	}
	if fd.Required == nil {
		fd.Required = requiredFromDescription(fd.Description)
	}
	return fd, true
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func requiredFlag(v string) *bool {
	switch strings.ToLower(v) {
	case "yes", "true", "required", "y":
		return schema.BoolPtr(true)
	case "no", "false", "optional", "n":
		return schema.BoolPtr(false)
	}
	return nil
}

// optionalFlag reads a cell of an "Optional" column into a required flag.
func optionalFlag(v string) *bool {
	switch strings.ToLower(v) {
	case "yes", "true", "optional", "y":
		return schema.BoolPtr(false)
	case "no", "false", "required", "n":
		return schema.BoolPtr(true)
	}
	return nil
}

// requiredFromDescription reads the "Required." and "Optional." markers that
// documentation writers put at the start of a description.
func requiredFromDescription(desc string) *bool {
	lower := strings.ToLower(desc)
	switch {
	case strings.HasPrefix(lower, "required."), strings.HasPrefix(lower, "required,"):
		return schema.BoolPtr(true)
	case strings.HasPrefix(lower, "optional."), strings.HasPrefix(lower, "optional,"):
		return schema.BoolPtr(false)
	}
	return nil
}
