// Package mastery decides whether a learner's attempt passes.
//
// Checker scores a typed or transcribed answer against the expected text and
// compares the score with a configured threshold. Verifier checks a
// handwritten canvas image for one letter (easy) or an ordered pair of
// letters (hard) using OCR symbols and their confidences.
package mastery
