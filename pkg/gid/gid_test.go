package gid

import (
	"encoding/base64"
	"testing"
)

func TestNormalize(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("gid://shopify/ProductVariant/40506?variant=1"))

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain global id", in: "gid://shopify/Product/7512", want: "7512"},
		{name: "base64 global id", in: encoded, want: "40506"},
		{name: "already normalized", in: "7512", want: "7512"},
		{name: "query dropped", in: "gid://shopify/Product/7512?x=1", want: "7512"},
		{name: "short id with query", in: "7512?x=1", want: "7512"},
		{name: "whitespace", in: "  gid://shopify/Collection/9  ", want: "9"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if again := Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	formatted := Format(KindProductVariant, "gid://shopify/ProductVariant/88")
	if formatted != "gid://shopify/ProductVariant/88" {
		t.Fatalf("unexpected format %q", formatted)
	}
	if Normalize(formatted) != "88" {
		t.Fatalf("round trip lost id: %q", formatted)
	}
	if Format("", "88") != "" || Format(KindProduct, "") != "" {
		t.Fatal("expected empty format for missing parts")
	}
}

func TestKind(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("gid://shopify/Checkout/abc?key=1"))
	if got := Kind(encoded); got != KindCheckout {
		t.Fatalf("expected Checkout, got %q", got)
	}
	if got := Kind("gid://shopify/Product/1"); got != KindProduct {
		t.Fatalf("expected Product, got %q", got)
	}
	if got := Kind("12"); got != "" {
		t.Fatalf("expected empty kind, got %q", got)
	}
	if !IsGlobal(encoded) || IsGlobal("12") {
		t.Fatal("IsGlobal mismatch")
	}
}

func TestValid(t *testing.T) {
	for _, raw := range []string{
		"42",
		"gid://shopify/Product/42",
		"gid://shopify/ProductVariant/7?x=1",
		base64.StdEncoding.EncodeToString([]byte("gid://shopify/Product/9")),
	} {
		if !Valid(raw) {
			t.Fatalf("expected %q to be valid", raw)
		}
	}
	for _, raw := range []string{
		"",
		"  ",
		"gid://shopify/42",
		"gid://shopify/Product/",
		"a/b",
		"two words",
	} {
		if Valid(raw) {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
