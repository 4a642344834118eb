package costing

import (
	"strings"
	"unicode"
)

// Unit is a canonical measurement unit.
type Unit string

const (
	UnitGram       Unit = "gram"
	UnitKilogram   Unit = "kilogram"
	UnitMilliliter Unit = "milliliter"
	UnitLiter      Unit = "liter"
	UnitPieces     Unit = "pieces"
)

// UnitRatio is the fixed factor between the small and large unit of a family.
const UnitRatio = 1000.0

type unitFamily int

const (
	familyMass unitFamily = iota + 1
	familyVolume
	familyCount
)

var unitAliases = map[string]Unit{
	"g":          UnitGram,
	"gr":         UnitGram,
	"grm":        UnitGram,
	"gram":       UnitGram,
	"grams":      UnitGram,
	"gramme":     UnitGram,
	"kg":         UnitKilogram,
	"kgs":        UnitKilogram,
	"kilo":       UnitKilogram,
	"kilogram":   UnitKilogram,
	"kilograms":  UnitKilogram,
	"ml":         UnitMilliliter,
	"mililiter":  UnitMilliliter,
	"milliliter": UnitMilliliter,
	"millilitre": UnitMilliliter,
	"l":          UnitLiter,
	"lt":         UnitLiter,
	"ltr":        UnitLiter,
	"liter":      UnitLiter,
	"litre":      UnitLiter,
	"liters":     UnitLiter,
	"pcs":        UnitPieces,
	"pc":         UnitPieces,
	"piece":      UnitPieces,
	"pieces":     UnitPieces,
	"buah":       UnitPieces,
	"biji":       UnitPieces,
}

var unitTable = map[Unit]struct {
	family unitFamily
	scale  float64 // size of the unit expressed in the family's small unit
}{
	UnitGram:       {familyMass, 1},
	UnitKilogram:   {familyMass, UnitRatio},
	UnitMilliliter: {familyVolume, 1},
	UnitLiter:      {familyVolume, UnitRatio},
	UnitPieces:     {familyCount, 1},
}

// NormalizeUnit maps a free-text unit onto its canonical form.
func NormalizeUnit(raw string) (Unit, bool) {
	key := strings.ToLower(strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}))
	if key == "" {
		return "", false
	}
	u, ok := unitAliases[key]
	return u, ok
}

// Conversion is the outcome of Convert. Mismatch is set when the units do not
// share a family; Quantity is then the input quantity, untouched.
type Conversion struct {
	Quantity  float64
	Converted bool
	Mismatch  bool
}

// Convert expresses quantity (in fromUnit) in toUnit.
func Convert(quantity float64, fromUnit, toUnit string) Conversion {
	from, okFrom := NormalizeUnit(fromUnit)
	to, okTo := NormalizeUnit(toUnit)
	if !okFrom || !okTo {
		return Conversion{Quantity: quantity, Mismatch: true}
	}
	if from == to {
		return Conversion{Quantity: quantity}
	}

	f, t := unitTable[from], unitTable[to]
	if f.family != t.family {
		return Conversion{Quantity: quantity, Mismatch: true}
	}
	return Conversion{Quantity: quantity * f.scale / t.scale, Converted: true}
}
