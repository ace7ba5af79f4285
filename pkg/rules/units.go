package rules

import (
	"strings"

	"golang.org/x/text/cases"
)

// unitSynonyms maps case-folded unit spellings to their canonical name. An
// empty canonical name clears the unit; those spellings describe a value
// domain rather than a unit of measure.
var unitSynonyms = buildUnitTable(map[string][]string{
	"": {
		"alphanumeric", "na", "n/a", "n.a", "censored/uncensored", "m/f",
		"test/control", "yes/no", "y/n", "not specified", "not collected",
		"not known", "not reported", "missing",
	},
	"meter": {"meter", "meters"},
	"cell per liter": {
		"cellsperliter", "cells per liter", "cellperliter", "cell per liter",
		"cellsperlitre", "cells per litre", "cellperlitre", "cell per litre",
	},
	"cell per millilitre": {
		"cellspermilliliter", "cells per milliliter", "cellpermilliliter", "cell per milliliter",
		"cellspermillilitre", "cells per millilitre", "cellpermillilitre", "cell per millilitre",
	},
	"micromole per liter": {
		"micromolesperliter", "micromoleperliter", "micromole per liter", "micromoles per liter",
		"micromolesperlitre", "micromoleperlitre", "micromole per litre", "micromoles per litre",
	},
	"microgram per liter": {
		"microgramsperliter", "microgramperliter", "microgram per liter", "micrograms per liter",
		"microgramsperlitre", "microgramperlitre", "microgram per litre", "micrograms per litre",
	},
	"micromole per kilogram": {
		"micromolesperkilogram", "micromoles per kilogram", "micromoleperkilogram", "micromole per kilogram",
	},
	"practical salinity unit": {
		"psu", "practicalsalinityunit", "practical salinity unit", "practical salinity units",
		"pss-78", "practicalsalinityscale1978",
	},
	"micromole":      {"micromoles", "micromole"},
	"hour":           {"decimalhours", "decimalhour", "hours", "hour"},
	"day":            {"day", "days"},
	"week":           {"week", "weeks"},
	"month":          {"month", "months"},
	"year":           {"year", "years"},
	"percent":        {"percentage"},
	"decimal degree": {"decimal degrees", "decimal degree", "decimaldegrees", "decimaldegree"},
	"Celsius": {
		"celcius", "degree celcius", "degrees celcius", "degreecelcius",
		"degree celsius", "degrees celsius", "degreecelsius",
		"centigrade", "degree centigrade", "degrees centigrade", "degreecentigrade",
		"c", "??c", "degree c",
		"internationaltemperaturescale1990", "iternationaltemperaturescale1990",
	},
})

func buildUnitTable(groups map[string][]string) map[string]string {
	table := make(map[string]string)
	for canonical, spellings := range groups {
		for _, s := range spellings {
			table[fold(s)] = canonical
		}
	}
	return table
}

// CanonicalUnit returns the canonical spelling of unit. Unknown units are
// returned unchanged; units that only describe a value domain map to "".
func CanonicalUnit(unit string) string {
	if canonical, ok := unitSynonyms[fold(unit)]; ok {
		return canonical
	}
	return unit
}

// fold is the case-insensitive key used by every lookup table in this package.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
