package route

import (
	"errors"
	"testing"
)

func TestParsePattern(t *testing.T) {
	cases := []struct {
		literal string
		kind    Kind
		base    string
		wantErr bool
	}{
		{literal: "/", kind: KindExact, base: "/"},
		{literal: "/terms", kind: KindExact, base: "/terms"},
		{literal: "/sign-in*", kind: KindPrefix, base: "/sign-in"},
		{literal: "/org*", kind: KindPrefix, base: "/org"},
		{literal: "", wantErr: true},
		{literal: "terms", wantErr: true},
		{literal: "/a*b", wantErr: true},
		{literal: "/a/*", wantErr: true},
		{literal: "*", wantErr: true},
	}

	for _, tc := range cases {
		p, err := ParsePattern(tc.literal)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePattern(%q): expected error, got %v", tc.literal, p)
			}
			if !errors.Is(err, ErrInvalidPattern) {
				t.Fatalf("ParsePattern(%q): expected ErrInvalidPattern, got %v", tc.literal, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePattern(%q): unexpected error %v", tc.literal, err)
		}
		if p.Kind() != tc.kind || p.Base() != tc.base {
			t.Fatalf("ParsePattern(%q) = kind %v base %q, want kind %v base %q",
				tc.literal, p.Kind(), p.Base(), tc.kind, tc.base)
		}
	}
}

func TestPatternString(t *testing.T) {
	if got := Exact("/terms").String(); got != "/terms" {
		t.Fatalf("expected /terms, got %q", got)
	}
	if got := Prefix("/sign-in").String(); got != "/sign-in*" {
		t.Fatalf("expected /sign-in*, got %q", got)
	}
}

func TestExactMatching(t *testing.T) {
	p := Exact("/terms")

	if !p.Matches("/terms") {
		t.Fatal("exact pattern must match its literal path")
	}
	if p.Matches("/terms/") {
		t.Fatal("trailing slash is a distinct path")
	}
	if p.Matches("/terms/privacy") {
		t.Fatal("exact pattern must not match nested paths")
	}
	if p.Matches("/Terms") {
		t.Fatal("matching is case-sensitive")
	}
}

func TestPrefixMatching(t *testing.T) {
	p := Prefix("/sign-in")

	cases := []struct {
		path string
		want bool
	}{
		{"/sign-in", true},
		{"/sign-in/", true},
		{"/sign-in/verify", true},
		{"/sign-in/verify/deep/nesting", true},
		{"/sign-in-extra", false},
		{"/sign-inx", false},
		{"/sign", false},
		{"/", false},
	}

	for _, tc := range cases {
		if got := p.Matches(tc.path); got != tc.want {
			t.Fatalf("Prefix(/sign-in).Matches(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
