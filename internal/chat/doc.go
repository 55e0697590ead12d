// Package chat answers parents' questions about dyslexia through a
// generative responder and shapes the reply into answer, sources and
// follow-up suggestions.
package chat
