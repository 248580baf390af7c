package compat

import "testing"

func TestIsSupportedGatesByVersion(t *testing.T) {
	if ES5.IsSupported(ArrowFunctions) {
		t.Fatalf("ES5 must not support arrow functions")
	}
	if !ES2015.IsSupported(ArrowFunctions | Classes | Let | Const) {
		t.Fatalf("ES2015 must support arrow functions, classes, let and const")
	}
	if ES2015.IsSupported(NullishCoalescing) {
		t.Fatalf("ES2015 must not support nullish coalescing")
	}
	if !Latest.IsSupported(ArrowFunctions | NullishCoalescing | OptionalChaining) {
		t.Fatalf("Latest must support every feature in the table")
	}
}

func TestUnsupportedFeaturesReportsOnlyTheGatedOnes(t *testing.T) {
	unsupported := ES5.UnsupportedFeatures(ArrowFunctions | NullishCoalescing)
	if unsupported&ArrowFunctions == 0 {
		t.Fatalf("expected ArrowFunctions to be reported unsupported under ES5")
	}
	if unsupported&NullishCoalescing == 0 {
		t.Fatalf("expected NullishCoalescing to be reported unsupported under ES5")
	}
	if ES5.UnsupportedFeatures(0) != 0 {
		t.Fatalf("an empty feature set should never be unsupported")
	}
}

func TestEcmaVersionString(t *testing.T) {
	cases := map[EcmaVersion]string{ES5: "ES5", ES2015: "ES2015", Latest: "Latest"}
	for version, want := range cases {
		if got := version.String(); got != want {
			t.Fatalf("version %d: got %q, want %q", version, got, want)
		}
	}
}
