package enrollment

import "fmt"

// ItemKind distinguishes what kind of catalog item is being purchased.
type ItemKind string

const (
	KindCourse   ItemKind = "course"
	KindWorkshop ItemKind = "workshop"
)

// Item identifies a purchasable catalog item.
type Item struct {
	Kind ItemKind
	ID   int64
}

// tables maps an item kind onto the catalog table, the (user, item) pair
// table and the pair table's item column. Both kinds share the exact same
// purchase shape, only the tables differ.
type tables struct {
	catalog    string
	pair       string
	itemColumn string
	action     string
}

var kindTables = map[ItemKind]tables{
	KindCourse: {
		catalog:    "courses",
		pair:       "user_courses",
		itemColumn: "course_id",
		action:     "Buy course",
	},
	KindWorkshop: {
		catalog:    "workshops",
		pair:       "workshop_registrations",
		itemColumn: "workshop_id",
		action:     "Buy workshop",
	},
}

func (k ItemKind) tables() (tables, error) {
	t, ok := kindTables[k]
	if !ok {
		return tables{}, fmt.Errorf("unknown item kind %q", k)
	}
	return t, nil
}

// Valid reports whether the kind is a known catalog kind
func (k ItemKind) Valid() bool {
	_, ok := kindTables[k]
	return ok
}
