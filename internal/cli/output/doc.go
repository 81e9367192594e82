// Package output renders command results as a table, JSON or YAML.
//
// Tables are built by reflection from struct fields; a `table:"wide"` tag
// hides a column unless wide mode is on and `table:"-"` hides it always.
// Column names come from the json tag.
package output
