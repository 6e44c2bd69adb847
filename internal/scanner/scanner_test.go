package scanner_test

import (
	"testing"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/scanner"
	"github.com/KennethLeeJE8/datadam-sub000/internal/testutil"
)

func newTestScanner(t *testing.T) *scanner.Scanner {
	t.Helper()
	return scanner.New(scanner.DefaultConfig(), &testutil.DummyLogger{})
}

func scanOne(t *testing.T, html string) []model.DetectedField {
	t.Helper()
	fields, err := newTestScanner(t).Scan("https://example.com/page", []byte(html))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return fields
}

func fieldNames(fields []model.DetectedField) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Identifiers.Name)
	}
	return names
}

// ─── Inclusion ─────────────────────────────────────────────────────────

func TestScan_IncludesByKind(t *testing.T) {
	fields := scanOne(t, `<form>
		<input type="email" name="contact_main">
		<input type="tel" name="reachable_at">
	</form>`)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fieldNames(fields))
	}
	if fields[0].ElementKind != model.KindEmail || fields[1].ElementKind != model.KindTel {
		t.Errorf("unexpected kinds: %s, %s", fields[0].ElementKind, fields[1].ElementKind)
	}
}

func TestScan_IncludesByAutocomplete(t *testing.T) {
	fields := scanOne(t, `<form>
		<input type="text" name="f1" autocomplete="given-name">
		<input type="text" name="f2" autocomplete="section-blue shipping postal-code">
		<input type="text" name="f3" autocomplete="off">
	</form>`)

	names := fieldNames(fields)
	if len(names) != 2 || names[0] != "f1" || names[1] != "f2" {
		t.Errorf("expected f1 and f2, got %v", names)
	}
}

func TestScan_IncludesByVocabulary(t *testing.T) {
	fields := scanOne(t, `<form>
		<label for="em">Email address</label>
		<input type="text" id="em" name="em">
		<input type="text" name="quantity">
	</form>`)

	names := fieldNames(fields)
	if len(names) != 1 || names[0] != "em" {
		t.Errorf("expected only the labelled email field, got %v", names)
	}
}

func TestScan_IncludesByFormContext(t *testing.T) {
	fields := scanOne(t, `
	<form class="signup-form">
		<input type="text" name="extra1">
	</form>
	<form class="search-form">
		<input type="text" name="extra2">
	</form>
	<input type="text" name="orphan">`)

	names := fieldNames(fields)
	if len(names) != 1 || names[0] != "extra1" {
		t.Errorf("expected only the signup-form field, got %v", names)
	}
}

func TestScan_SelectAndTextarea(t *testing.T) {
	fields := scanOne(t, `<form>
		<label for="country">Country</label>
		<select id="country" name="country"><option>US</option></select>
		<textarea name="street_address"></textarea>
	</form>`)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fieldNames(fields))
	}
	if fields[0].ElementKind != model.KindDropdown {
		t.Errorf("expected dropdown, got %s", fields[0].ElementKind)
	}
	if fields[1].ElementKind != model.KindTextarea {
		t.Errorf("expected textarea, got %s", fields[1].ElementKind)
	}
}

// ─── Exclusion ─────────────────────────────────────────────────────────

func TestScan_ExcludesByKind(t *testing.T) {
	fields := scanOne(t, `<form class="signup-form">
		<input type="hidden" name="csrf_token">
		<input type="password" name="password">
		<input type="submit" name="go">
		<input type="file" name="avatar">
		<input type="text" name="email">
	</form>`)

	names := fieldNames(fields)
	if len(names) != 1 || names[0] != "email" {
		t.Errorf("expected only email, got %v", names)
	}
}

func TestScan_ExcludesByState(t *testing.T) {
	fields := scanOne(t, `<form>
		<input type="text" name="email" disabled>
		<input type="text" name="phone" readonly>
		<input type="text" name="city" hidden>
		<input type="text" name="state" aria-hidden="true">
		<input type="text" name="country" style="display: none">
		<input type="text" name="company" style="visibility:hidden">
		<input type="text" name="username">
	</form>`)

	names := fieldNames(fields)
	if len(names) != 1 || names[0] != "username" {
		t.Errorf("expected only username, got %v", names)
	}
}

func TestScan_ExclusionBeatsInclusion(t *testing.T) {
	// Both carry inclusion signals; the exclusion vocabulary must win.
	fields := scanOne(t, `<form class="checkout-form">
		<input type="text" name="search_city" placeholder="Search city">
		<input type="email" name="email" placeholder="One time code to your email">
	</form>`)

	if len(fields) != 0 {
		t.Errorf("expected exclusion to win, got %v", fieldNames(fields))
	}
}

func TestScan_ExcludesPaymentSecurityFields(t *testing.T) {
	fields := scanOne(t, `<form id="checkout-form">
		<input type="text" name="cvv">
		<input type="text" name="promo_code_entry" placeholder="Promo code">
		<input type="text" name="address_line1">
	</form>`)

	names := fieldNames(fields)
	if len(names) != 1 || names[0] != "address_line1" {
		t.Errorf("expected only address_line1, got %v", names)
	}
}

// ─── Extraction ────────────────────────────────────────────────────────

func TestScan_ExtractsIdentifiers(t *testing.T) {
	fields := scanOne(t, `<form>
		<label for="em">Email address</label>
		<input type="email" id="em" name="user_email" placeholder="you@example.com"
		       aria-label="Your email" autocomplete="email">
	</form>`)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	id := fields[0].Identifiers
	if id.Name != "user_email" || id.ID != "em" {
		t.Errorf("unexpected name/id: %q %q", id.Name, id.ID)
	}
	if id.Label != "Email address" {
		t.Errorf("unexpected label: %q", id.Label)
	}
	if id.Placeholder != "you@example.com" || id.AriaLabel != "Your email" || id.Autocomplete != "email" {
		t.Errorf("unexpected attributes: %+v", id)
	}
}

func TestScan_WrappingLabel(t *testing.T) {
	fields := scanOne(t, `<form>
		<label>Phone number <input type="tel" name="ph"></label>
	</form>`)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Identifiers.Label != "Phone number" {
		t.Errorf("unexpected wrapping label: %q", fields[0].Identifiers.Label)
	}
}

func TestScan_ContextHints(t *testing.T) {
	fields := scanOne(t, `<form>
		<div>
			<span>Work email</span>
			<input type="email" name="we">
		</div>
	</form>`)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	hints := fields[0].Identifiers.Hints
	if len(hints) == 0 || hints[0] != "Work email" {
		t.Errorf("expected preceding-sibling hint, got %v", hints)
	}
}

func TestScan_Locators(t *testing.T) {
	fields := scanOne(t, `<form class="signup-form">
		<input type="email" id="em1" name="email">
		<input type="tel" name="phone">
		<input type="text" name="" placeholder="Your name">
	</form>`)

	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Locator != "#em1" {
		t.Errorf("expected id locator, got %q", fields[0].Locator)
	}
	if fields[1].Locator != `input[name="phone"]` {
		t.Errorf("expected name locator, got %q", fields[1].Locator)
	}
	if fields[2].Locator != "input:nth(2)" {
		t.Errorf("expected positional locator, got %q", fields[2].Locator)
	}
}

func TestScan_EmptyPage(t *testing.T) {
	fields := scanOne(t, `<html><body><p>No forms here</p></body></html>`)
	if len(fields) != 0 {
		t.Errorf("expected no fields, got %v", fieldNames(fields))
	}
}
