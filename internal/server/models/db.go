// Package models defines server-side data models persisted in the database
// or produced by the upload backend.
package models
