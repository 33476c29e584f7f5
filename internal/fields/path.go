package fields

import "situation-analyzer/internal/docintel"

// Row selects an element of a repeating field.
type Row int

// LastRow selects the final element of the array, the latest cumulative line.
const LastRow Row = -1

// Path addresses one value inside a document's field map. A scalar path has
// only Name; a table path also selects a row and a column. Columns accept
// several keys because deployed models label them differently.
type Path struct {
	Name    string
	Row     Row
	Columns []string
	table   bool
}

// Scalar addresses a top-level field.
func Scalar(name string) Path {
	return Path{Name: name}
}

// Cell addresses a column of one row of a repeating field.
func Cell(name string, row Row, columns ...string) Path {
	return Path{Name: name, Row: row, Columns: columns, table: true}
}

// Lookup resolves the path. ok is false when any step is absent. Among the
// column candidates, the first one carrying a value wins; a present but empty
// cell is returned only when no candidate has a value.
func Lookup(fields map[string]docintel.Field, p Path) (docintel.Field, bool) {
	top, ok := fields[p.Name]
	if !ok {
		return docintel.Field{}, false
	}
	if !p.table {
		return top, true
	}

	rows := top.ValueArray
	idx := int(p.Row)
	if p.Row == LastRow {
		idx = len(rows) - 1
	}
	if idx < 0 || idx >= len(rows) {
		return docintel.Field{}, false
	}
	cells := rows[idx].ValueObject
	var (
		first    docintel.Field
		hasFirst bool
	)
	for _, key := range p.Columns {
		cell, ok := cells[key]
		if !ok {
			continue
		}
		if hasValue(cell) {
			return cell, true
		}
		if !hasFirst {
			first, hasFirst = cell, true
		}
	}
	return first, hasFirst
}

// hasValue reports whether f carries a string or numeric value.
func hasValue(f docintel.Field) bool {
	return f.ValueString != nil || f.ValueNumber != nil
}
