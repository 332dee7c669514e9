// Package options holds user-facing knobs shared by the mapper facade and
// the primitive coercion engine.
package options

// CategoryEnum is a bitmask of permitted primitive coercion families.
// A coercion is only attempted when its conversion pair belongs to at least
// one selected category.
type CategoryEnum int

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumText                              // string <-> enum: textual representation of an enum type (TextMarshaler/TextUnmarshaler/Stringer)

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

// Has reports whether every category in sub is selected in c.
func (c CategoryEnum) Has(sub CategoryEnum) bool {
	return c&sub == sub
}
