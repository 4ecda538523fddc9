// Package entity defines the domain models for the instruments feature.
package entity

import "time"

// Instrument classes.
const (
	ClassMetal = "metal"
	ClassIndex = "index"
	ClassFX    = "fx"
)

// Instrument is a tradable market as the provider names it, plus the per-instrument settings
// the signal heuristic needs. MinDistance is the take-profit floor in price units and has no
// global default: 10 for gold and US indices, 5 for European indices, 0.0020 for FX majors.
type Instrument struct {
	ID          uint      `gorm:"primaryKey" yaml:"-"`
	Code        string    `gorm:"size:32;not null;uniqueIndex" yaml:"code"`
	Name        string    `gorm:"size:255;not null" yaml:"name"`
	Class       string    `gorm:"size:16;not null" yaml:"class"`
	MinDistance float64   `gorm:"not null" yaml:"min_distance"`
	Profile     string    `gorm:"size:32;not null;default:default" yaml:"profile"`
	IsActive    bool      `gorm:"not null" yaml:"active"`
	SortKey     int       `gorm:"not null;default:0" yaml:"sort_key"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" yaml:"-"`
}
