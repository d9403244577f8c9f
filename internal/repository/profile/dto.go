package profile

import (
	"encoding/binary"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/domain"
)

// Hash field names of a stored profile.
const (
	fieldCandidateName   = "candidate_name"
	fieldTitles          = "titles"
	fieldSkills          = "skills"
	fieldYearsExperience = "years_experience"
	fieldFilename        = "filename"
	fieldRawText         = "raw_text"
)

// buildHashFields converts a domain Profile into a flat map for HSET.
func buildHashFields(p domain.Profile) map[string]string {
	return map[string]string{
		fieldCandidateName:   p.CandidateName,
		fieldTitles:          p.Titles,
		fieldSkills:          p.Skills,
		fieldYearsExperience: strconv.Itoa(p.YearsExperience),
		fieldFilename:        p.Filename,
		fieldRawText:         p.RawText,
	}
}

// parseHashFields converts a stored hash back into a domain Profile. The
// years field is parsed totally; malformed values read as 0 with a
// data-quality warning.
func parseHashFields(id string, m map[string]string, logger *zap.Logger) domain.Profile {
	years, warn := domain.ParseYears(m[fieldYearsExperience])
	if warn {
		logger.Warn("malformed years_experience field, reading as 0",
			zap.String("id", id),
			zap.String("raw", m[fieldYearsExperience]))
	}
	return domain.Profile{
		ID:              id,
		CandidateName:   m[fieldCandidateName],
		Titles:          m[fieldTitles],
		Skills:          m[fieldSkills],
		YearsExperience: years,
		Filename:        m[fieldFilename],
		RawText:         m[fieldRawText],
	}
}

// vectorToBytes serializes []float32 to 4 bytes per component, little-endian.
func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToVector deserializes the binary form back to []float32.
func bytesToVector(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
