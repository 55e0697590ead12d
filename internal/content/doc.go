// Package content persists rotation content and cursors in SQLite.
//
// Store implements rotation.Store over the content_items table: the ordinal
// of an item is its position among the rows of its rotation key ordered by id.
// Cursor implements rotation.Cursor over rotation_cursors, advancing each key
// inside an immediate transaction while holding an in-process lock for that
// key. Import loads seed files (YAML or JSON) so a fresh database can be
// populated from the command line.
package content
