package domain

import "testing"

func TestSanitizeName_ReplacesDisallowedRunesWithSpace(t *testing.T) {
	if got := SanitizeName("  Петров,  Иван!  "); got != "Петров Иван" {
		t.Fatalf("expected %q, got %q", "Петров Иван", got)
	}
}

func TestSanitizeName_KeepsApostropheAndHyphen(t *testing.T) {
	if got := SanitizeName("O'Brien-Smith"); got != "O'Brien-Smith" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"Петров Иван",
		"  a\t\nb  ",
		"!!!",
		"Złoty–Krakówski", // en dash não é hífen ascii
		string([]byte{0xff, 0xfe, 'a'}),
	}
	for _, in := range inputs {
		once := SanitizeName(in)
		twice := SanitizeName(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeName_ScrubsInvalidBytes(t *testing.T) {
	got := SanitizeName("Iv\xffan")
	if got != "Ivan" {
		t.Fatalf("expected invalid bytes scrubbed, got %q", got)
	}
}

func TestSanitizeDOB_ConvertsDottedFormat(t *testing.T) {
	if got := SanitizeDOB("25.12.1990"); got != "1990-12-25" {
		t.Fatalf("expected 1990-12-25, got %q", got)
	}
}

func TestSanitizeDOB_AcceptsISO(t *testing.T) {
	if got := SanitizeDOB("1990-12-25"); got != "1990-12-25" {
		t.Fatalf("expected 1990-12-25, got %q", got)
	}
}

func TestSanitizeDOB_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"not a date", "1990/12/25", "25.12.90", "12.1990", ""} {
		if got := SanitizeDOB(in); got != "" {
			t.Fatalf("expected empty for %q, got %q", in, got)
		}
	}
}

func TestSanitizeCountry_AllowsCommonPunctuation(t *testing.T) {
	if got := SanitizeCountry("Congo, Dem. Rep. (Kinshasa)"); got != "Congo, Dem. Rep. (Kinshasa)" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestSanitizeAddress_RequiresLetterOrDigit(t *testing.T) {
	if got := SanitizeAddress("!!! ... ---"); got != "" {
		t.Fatalf("expected empty for punctuation-only address, got %q", got)
	}
	if got := SanitizeAddress("вул. Хрещатик, 1"); got == "" {
		t.Fatalf("expected non-empty address")
	}
}

func TestSanitizePhone_KeepsDigitsAndPlus(t *testing.T) {
	if got := SanitizePhone("+38 (044) 123-45-67; +7 903"); got != "+38 044 1234567 +7 903" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestSanitizePhone_Idempotent(t *testing.T) {
	once := SanitizePhone("+38;044,123")
	twice := SanitizePhone(once)
	if once != twice {
		t.Fatalf("not idempotent: %q != %q", once, twice)
	}
}

func TestSanitizeDescription_CollapsesWhitespace(t *testing.T) {
	if got := SanitizeDescription("  took   part \n in ...  "); got != "took part in ..." {
		t.Fatalf("unexpected result %q", got)
	}
	if got := SanitizeDescription("  ...  "); got != "" {
		t.Fatalf("expected empty for symbol-only description, got %q", got)
	}
}
