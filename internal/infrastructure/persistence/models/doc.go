// Package models holds the GORM persistence models. Each model converts to
// and from its domain aggregate with ToDomain / FromDomain; domain types never
// carry gorm tags.
package models
