// Package activities serves learning content through the rotation selector:
// sentence rearranging, reading passages, image labeling and dyslexia myths.
//
// Each activity owns a rotation key namespace and decodes the stored JSON
// payload into its response shape. Empty groups surface as
// rotation.ErrNoContent.
package activities
