// Package compat gates which syntax the printer is allowed to emit for a
// given configured ecma level (§6 "ecma"). It mirrors the teacher's
// internal/compat package in shape (a feature bitset plus a membership
// check) but trims the table down to the handful of syntax forms this tool's
// AST can actually produce, since there is no bundler/transform target
// matrix to drive here.
package compat

// EcmaVersion is the configured output language level (§6 "ecma").
type EcmaVersion uint8

const (
	ES5 EcmaVersion = iota
	ES2015
	Latest
)

// Feature is a bitset of syntax forms that may need to be gated by
// EcmaVersion. Bits are ORed together the same way the teacher's JSFeature
// bitset is, so a caller can test membership with a single AND.
type Feature uint32

const (
	ArrowFunctions Feature = 1 << iota
	Let
	Const
	Classes
	TemplateLiterals
	Spread
	RestArguments
	DefaultArguments
	ShorthandProperties
	ObjectExtensions // computed keys, methods
	ExponentiationOperator
	NullishCoalescing
	OptionalChaining
)

// minimumVersion records the lowest EcmaVersion each feature requires.
var minimumVersion = map[Feature]EcmaVersion{
	ArrowFunctions:          ES2015,
	Let:                     ES2015,
	Const:                   ES2015,
	Classes:                 ES2015,
	TemplateLiterals:        ES2015,
	Spread:                  ES2015,
	RestArguments:           ES2015,
	DefaultArguments:        ES2015,
	ShorthandProperties:     ES2015,
	ObjectExtensions:        ES2015,
	ExponentiationOperator:  Latest,
	NullishCoalescing:       Latest,
	OptionalChaining:        Latest,
}

// IsSupported reports whether target supports every feature set in features.
func (target EcmaVersion) IsSupported(features Feature) bool {
	for feature, min := range minimumVersion {
		if features&feature != 0 && target < min {
			return false
		}
	}
	return true
}

// UnsupportedFeatures returns the subset of features that target cannot
// express, for building a precise diagnostic instead of a single boolean.
func (target EcmaVersion) UnsupportedFeatures(features Feature) Feature {
	var unsupported Feature
	for feature, min := range minimumVersion {
		if features&feature != 0 && target < min {
			unsupported |= feature
		}
	}
	return unsupported
}

func (f EcmaVersion) String() string {
	switch f {
	case ES5:
		return "ES5"
	case ES2015:
		return "ES2015"
	default:
		return "Latest"
	}
}
