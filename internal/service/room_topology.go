package service

import (
	"strings"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
)

// builtinRooms are the department's predefined rooms. They always occupy
// the leading column positions, in this order, before any user-added room.
var builtinRooms = []string{"M301", "M303", "M304", "M305", "M306", "M307"}

// roomGroups are the two parallel scheduling tracks per physical room.
var roomGroups = []string{"A", "B"}

// RoomTopology is the ordered set of room columns derived from the rooms
// collection. Column indexes are 1-based and durable: schedule entries
// persist them, so the ordering must not change within an operation.
type RoomTopology struct {
	columns []string
	types   map[string]models.RoomType
}

// NormalizeRoomType maps a raw room-type string to its canonical value.
// Unknown or garbled strings default to BOTH: facility data is frequently
// incomplete and a room must never become unschedulable because of it.
func NormalizeRoomType(raw string) models.RoomType {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.NewReplacer(" ", "", "/", "", "-", "", "_", "").Replace(cleaned)
	switch cleaned {
	case "PURELEC", "PURELECTURE", "LECTURE":
		return models.RoomTypePureLec
	case "LECLAB", "LABORATORY", "LAB":
		return models.RoomTypeLecLab
	case "BOTH":
		return models.RoomTypeBoth
	default:
		return models.RoomTypeBoth
	}
}

// BuildRoomTopology computes the room columns for the current rooms
// collection: built-ins first in fixed order, then user rooms in insertion
// order, duplicates by name collapsed, each room doubled into "A" and "B"
// columns.
func BuildRoomTopology(rooms []models.Room) *RoomTopology {
	types := make(map[string]models.RoomType, len(rooms)+len(builtinRooms))
	for _, name := range builtinRooms {
		types[name] = models.RoomTypeBoth
	}
	for _, room := range rooms {
		name := strings.TrimSpace(room.Name)
		if name == "" {
			continue
		}
		types[name] = NormalizeRoomType(room.RoomType)
	}

	seen := make(map[string]bool, len(types))
	ordered := make([]string, 0, len(types))
	for _, name := range builtinRooms {
		if !seen[name] {
			seen[name] = true
			ordered = append(ordered, name)
		}
	}
	for _, room := range rooms {
		name := strings.TrimSpace(room.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, name)
	}

	columns := make([]string, 0, len(ordered)*len(roomGroups))
	for _, name := range ordered {
		for _, group := range roomGroups {
			columns = append(columns, name+" "+group)
		}
	}

	return &RoomTopology{columns: columns, types: types}
}

// Columns returns the ordered room-column labels.
func (t *RoomTopology) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnCount returns the number of room columns.
func (t *RoomTopology) ColumnCount() int {
	return len(t.columns)
}

// ColumnLabel returns the label for a 1-based column index, or "" when the
// index is out of range.
func (t *RoomTopology) ColumnLabel(col int) string {
	if col < 1 || col > len(t.columns) {
		return ""
	}
	return t.columns[col-1]
}

// ColumnIndex returns the 1-based index for a column label, or 0 when the
// label is unknown.
func (t *RoomTopology) ColumnIndex(label string) int {
	for i, column := range t.columns {
		if column == label {
			return i + 1
		}
	}
	return 0
}

// GroupColumns returns the 1-based indexes of the columns in the given
// group ("A" or "B").
func (t *RoomTopology) GroupColumns(group string) []int {
	suffix := " " + strings.ToUpper(strings.TrimSpace(group))
	var cols []int
	for i, column := range t.columns {
		if strings.HasSuffix(column, suffix) {
			cols = append(cols, i+1)
		}
	}
	return cols
}

// ColumnGroup returns the group letter of a column label.
func ColumnGroup(label string) string {
	idx := strings.LastIndex(label, " ")
	if idx < 0 {
		return ""
	}
	return label[idx+1:]
}

// BaseRoom strips the group suffix off a column label.
func (t *RoomTopology) BaseRoom(col int) string {
	label := t.ColumnLabel(col)
	idx := strings.LastIndex(label, " ")
	if idx < 0 {
		return label
	}
	return label[:idx]
}

// TypeForColumn resolves the normalized room type backing a column.
func (t *RoomTopology) TypeForColumn(col int) models.RoomType {
	return t.TypeForRoom(t.BaseRoom(col))
}

// TypeForRoom resolves the normalized type of a base room name.
func (t *RoomTopology) TypeForRoom(name string) models.RoomType {
	if typ, ok := t.types[name]; ok {
		return typ
	}
	return models.RoomTypeBoth
}
