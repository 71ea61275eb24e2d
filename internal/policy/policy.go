// Package policy holds the row access rules for the catalog tables. Every
// table operation the HTTP layers perform is checked against this table
// first; there is no other authorization logic.
package policy

// Table names a guarded table.
type Table string

// Op is a table operation.
type Op string

// Role is the caller class a rule applies to.
type Role string

const (
	Categories    Table = "categories"
	JewelryItems  Table = "jewelry_items"
	AdminSettings Table = "admin_settings"
)

const (
	Read   Op = "read"
	Insert Op = "insert"
	Update Op = "update"
	Delete Op = "delete"
)

const (
	Anon          Role = "anon"
	Authenticated Role = "authenticated"
)

type rule struct {
	table Table
	op    Op
	role  Role
}

var rules = map[rule]bool{
	{Categories, Read, Anon}:            true,
	{Categories, Read, Authenticated}:   true,
	{Categories, Insert, Authenticated}: true,
	{Categories, Update, Authenticated}: true,
	{Categories, Delete, Authenticated}: true,

	{JewelryItems, Read, Anon}:            true,
	{JewelryItems, Read, Authenticated}:   true,
	{JewelryItems, Insert, Authenticated}: true,
	{JewelryItems, Update, Authenticated}: true,
	{JewelryItems, Delete, Authenticated}: true,

	{AdminSettings, Read, Authenticated}:   true,
	{AdminSettings, Insert, Authenticated}: true,
	{AdminSettings, Update, Authenticated}: true,
}

// Allow reports whether role may perform op on table. Anything without an
// explicit rule is denied.
func Allow(table Table, op Op, role Role) bool {
	return rules[rule{table, op, role}]
}

// RoleOf maps "is there a signed-in user" to a policy role.
func RoleOf(authenticated bool) Role {
	if authenticated {
		return Authenticated
	}
	return Anon
}
