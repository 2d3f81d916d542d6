package query

import "testing"

func TestParseSignatureRust(t *testing.T) {
	sig, ok := parseSignature("greet(name: String, loud: bool) -> String")
	if !ok {
		t.Fatal("expected ok")
	}
	if sig.Name != "greet" {
		t.Errorf("name = %q", sig.Name)
	}
	if len(sig.Params) != 2 {
		t.Fatalf("params = %v", sig.Params)
	}
	if sig.Params[0].Name != "name" || sig.Params[0].Type != "String" {
		t.Errorf("param0 = %+v", sig.Params[0])
	}
	if sig.Return != "String" {
		t.Errorf("return = %q", sig.Return)
	}
}

func TestParseSignatureNoParamTypes(t *testing.T) {
	sig, ok := parseSignature("greet(name, loud)")
	if !ok {
		t.Fatal("expected ok")
	}
	if len(sig.Params) != 2 || sig.Params[0].Type != "" {
		t.Errorf("params = %+v", sig.Params)
	}
}

func TestParseSignatureNestedParens(t *testing.T) {
	sig, ok := parseSignature("greet(cb: Fn(i32) -> i32, name: String)")
	if !ok {
		t.Fatal("expected ok")
	}
	if len(sig.Params) != 2 {
		t.Fatalf("params = %+v", sig.Params)
	}
	if sig.Params[1].Name != "name" {
		t.Errorf("param1 = %+v", sig.Params[1])
	}
}

func TestDiffSignaturesByName(t *testing.T) {
	old := Signature{Params: []Param{{Name: "a"}, {Name: "b"}}}
	newer := Signature{Params: []Param{{Name: "b"}, {Name: "c"}}}
	d := diffSignatures(old, newer)

	if len(d.Added) != 1 || d.Added[0].Name != "c" {
		t.Errorf("added = %+v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0].Name != "a" {
		t.Errorf("removed = %+v", d.Removed)
	}
}

func TestDiffSignaturesIsPositionAgnostic(t *testing.T) {
	old := Signature{Params: []Param{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}}}
	newer := Signature{Params: []Param{{Name: "b", Type: "string"}, {Name: "a", Type: "int"}}}
	d := diffSignatures(old, newer)
	if len(d.Added) != 0 || len(d.Removed) != 0 {
		t.Errorf("expected no diff on reorder, got added=%v removed=%v", d.Added, d.Removed)
	}
}

func TestSplitTopLevelCommas(t *testing.T) {
	parts := splitTopLevelCommas("a, b(c, d), [e, f]")
	want := []string{"a", " b(c, d)", " [e, f]"}
	if len(parts) != len(want) {
		t.Fatalf("parts = %v", parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("parts[%d] = %q, want %q", i, parts[i], want[i])
		}
	}
}
