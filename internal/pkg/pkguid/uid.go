package pkguid

import "strconv"

// StringID generates unique string identifiers.
type StringID interface {
	// Generate generates a unique identifier as a string.
	Generate() string
}

// NumberID generates unique numeric identifiers.
type NumberID interface {
	// Generate generates a unique identifier as an int64 number.
	Generate() int64
}

// FromNumber adapts a NumberID so it can be used where a StringID is expected,
// for example when correlation IDs are configured to use Snowflake.
func FromNumber(gen NumberID) StringID {
	return numberAdapter{gen: gen}
}

type numberAdapter struct {
	gen NumberID
}

func (a numberAdapter) Generate() string {
	return strconv.FormatInt(a.gen.Generate(), 10)
}
