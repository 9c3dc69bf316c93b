package application

import (
	"context"
	"testing"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

func headerMap(m map[string]string) domain.HeaderGetter {
	return func(name string) string { return m[name] }
}

func TestGeoGate_BlocksListedCountryOnRestrictedType(t *testing.T) {
	g := NewGeoGate()

	rc := &domain.RequestContext{
		PostType: "criminal",
		Header:   headerMap(map[string]string{"CF-IPCountry": "RU"}),
	}
	g.Apply(context.Background(), rc)

	if !rc.Blocked {
		t.Fatalf("expected hard block for RU")
	}
	if rc.ErrorCode() != 0 {
		t.Fatalf("hard block must not use the deferred error, got %d", rc.ErrorCode())
	}
}

func TestGeoGate_ExceptionMarkerVoidsHardBlock(t *testing.T) {
	g := NewGeoGate()

	rc := &domain.RequestContext{
		PostType: "criminal",
		Header: headerMap(map[string]string{
			"CF-IPCountry": "RU",
			"X-PSB-Zone":   "occupied; false-positive;",
		}),
	}
	g.Apply(context.Background(), rc)

	if rc.Blocked {
		t.Fatalf("expected no block with exception marker")
	}
	if !rc.Exception {
		t.Fatalf("expected exception flag")
	}
	// a mesma marca anula a detecção de zona ocupada (polaridade oposta,
	// mantida de propósito)
	if rc.Occupied {
		t.Fatalf("expected occupied=false when marker present")
	}
}

func TestGeoGate_OccupiedZoneWholeWordOnly(t *testing.T) {
	g := NewGeoGate()

	rc := &domain.RequestContext{
		PostType: "criminal",
		Header:   headerMap(map[string]string{"X-PSB-Zone": "zone=occupied; conf=high"}),
	}
	g.Apply(context.Background(), rc)
	if !rc.Occupied {
		t.Fatalf("expected occupied for whole-word token")
	}

	rc2 := &domain.RequestContext{
		PostType: "criminal",
		Header:   headerMap(map[string]string{"X-PSB-Zone": "unoccupiedX"}),
	}
	g.Apply(context.Background(), rc2)
	if rc2.Occupied {
		t.Fatalf("expected occupied=false for partial token")
	}
}

func TestGeoGate_CountryResolutionFirstWellFormedWins(t *testing.T) {
	g := NewGeoGate()

	rc := &domain.RequestContext{
		Header: headerMap(map[string]string{
			"CF-IPCountry":   "XX",
			"X-Country-Code": "ua",
		}),
	}
	g.Apply(context.Background(), rc)
	if rc.Country != "UA" {
		t.Fatalf("expected UA (placeholder skipped, value uppercased), got %q", rc.Country)
	}

	rc2 := &domain.RequestContext{Header: headerMap(map[string]string{"CF-IPCountry": "Bra"})}
	g.Apply(context.Background(), rc2)
	if rc2.Country != "XX" {
		t.Fatalf("expected default XX for malformed code, got %q", rc2.Country)
	}
}

func TestGeoGate_NoBlockForOtherPostTypes(t *testing.T) {
	g := NewGeoGate()

	rc := &domain.RequestContext{
		PostType: "post",
		Header:   headerMap(map[string]string{"CF-IPCountry": "RU"}),
	}
	g.Apply(context.Background(), rc)
	if rc.Blocked {
		t.Fatalf("expected no block outside the restricted post type")
	}
}
