// Package textutil holds the string helpers shared by the activities and the
// mastery check: a similarity ratio, label cleanup, and jumbled-option
// generation.
package textutil
