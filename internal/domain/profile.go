package domain

import (
	"strconv"
	"strings"
)

// UnknownCandidate is the sentinel name used when no person entity survives
// the name filters.
const UnknownCandidate = "Unknown Candidate"

// MaxPlausibleYears bounds the experience extractor: matches at or above this
// value are treated as artifacts (date ranges, typos) and discarded.
const MaxPlausibleYears = 50

// Profile is the structured record derived from one resume document.
// Titles and Skills hold comma-joined, lower-cased vocabulary terms.
type Profile struct {
	ID              string
	CandidateName   string
	Titles          string
	Skills          string
	YearsExperience int
	Filename        string
	RawText         string
}

// CriteriaTarget is the job requirement a profile is evaluated against.
// Immutable for the duration of an audit run.
type CriteriaTarget struct {
	Title         string
	SkillsText    string
	MinExperience int
}

// MatchSignals holds the per-criterion evaluation of one profile against a
// target. Scores are cosine similarities; booleans are threshold decisions.
type MatchSignals struct {
	TitleMatch      bool
	SkillsMatch     bool
	ExperienceMatch bool
	TitleScore      float64
	SkillsScore     float64
}

// ParseYears converts a stored years-of-experience value to a non-negative
// integer. The field historically arrived as "3", "3.5" or garbage depending
// on the ingester version, so the parse is total and the second return value
// reports that a data-quality warning is due. A clean non-negative integer is
// the only warning-free form; fractional values are truncated but still
// flagged.
func ParseYears(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, true
		}
		return n, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0, true
		}
		return int(f), true
	}
	return 0, true
}
