// Package domain contains the core entities of the application:
// users, paragraphs, and the word-frequency rows derived from them.
// Entities carry their own validation; persistence is handled by the
// store layer.
package domain
