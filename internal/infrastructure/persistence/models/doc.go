// Package models contains GORM persistence models and their mappings to
// domain snapshot records. Models carry storage concerns (column types,
// indexes, timestamps) that the domain layer does not know about.
package models
