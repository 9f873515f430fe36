package models

import "strings"

type CompetitionType string

const (
	CompetitionForms CompetitionType = "forms"
	CompetitionMusic CompetitionType = "music"
)

// CompetitionTypes is the fixed domain sequence used when partitioning matches.
var CompetitionTypes = []CompetitionType{CompetitionForms, CompetitionMusic}

func ParseCompetitionType(raw string) (CompetitionType, bool) {
	switch CompetitionType(strings.ToLower(strings.TrimSpace(raw))) {
	case CompetitionForms:
		return CompetitionForms, true
	case CompetitionMusic:
		return CompetitionMusic, true
	default:
		return "", false
	}
}

// Rank returns the position of the type in CompetitionTypes, unknown types sort last.
func (t CompetitionType) Rank() int {
	for i, ct := range CompetitionTypes {
		if ct == t {
			return i
		}
	}
	return len(CompetitionTypes)
}

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderMixed  Gender = "MIXED"
)

func ParseGender(raw string) Gender {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "MALE", "M", "NAM":
		return GenderMale
	case "FEMALE", "F", "NU", "NỮ":
		return GenderFemale
	case "MIXED":
		return GenderMixed
	default:
		return GenderUnset
	}
}

// DeriveGender returns the shared gender of the given participants, MIXED when they
// disagree and unset when none is known.
func DeriveGender(participants []Participant) Gender {
	derived := GenderUnset
	for _, p := range participants {
		g := ParseGender(string(p.Gender))
		if g == GenderUnset {
			continue
		}
		if derived == GenderUnset {
			derived = g
			continue
		}
		if derived != g {
			return GenderMixed
		}
	}
	return derived
}
