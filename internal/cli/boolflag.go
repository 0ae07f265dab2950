package cli

import (
	"strconv"
)

// boolValue is a bool flag that always takes a value, so both
// --save_csv=false and --save_csv false work.
type boolValue bool

func newBoolValue(def bool, p *bool) *boolValue {
	*p = def
	return (*boolValue)(p)
}

func (b *boolValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = boolValue(v)
	return nil
}

func (b *boolValue) String() string { return strconv.FormatBool(bool(*b)) }

func (b *boolValue) Type() string { return "bool" }
