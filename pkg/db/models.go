package db

import "time"

// Lemma is a dictionary headword that may be inflected by a table.
type Lemma struct {
	ID           int64
	Term         string
	Language     string
	Reading      string
	PartOfSpeech string
	// TableID is 0 when no inflection table is attached.
	TableID int64
}

// InflectionTable is a saved table. Layout holds the JSON encoded stored
// rows and Stems the JSON encoded list of stem names the table references.
type InflectionTable struct {
	ID        int64
	Name      string
	Layout    string
	Stems     string
	UpdatedAt time.Time
}

// InflectedForm is one data cell of a table.
type InflectedForm struct {
	ID                   int64
	TableID              int64
	InflectionPattern    string
	DeriveLemma          bool
	DisplayName          string
	HasCustomDisplayName bool
}

// DerivedForm is an inflected form computed for a specific lemma.
type DerivedForm struct {
	LemmaID         int64
	InflectedFormID int64
	DisplayName     string
	Text            string
}
