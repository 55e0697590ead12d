// Package vision calls the Google Cloud Vision images:annotate endpoint with
// DOCUMENT_TEXT_DETECTION and flattens the full text annotation into the
// ordered list of recognised symbols with their confidences.
package vision
