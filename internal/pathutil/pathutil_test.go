package pathutil

import (
	"errors"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{"/etc/passwd", []string{"etc", "passwd"}},
		{"etc/passwd", []string{"etc", "passwd"}},
		{"/", nil},
		{"", nil},
		{"a//b/./c", []string{"a", "b", "c"}},
		{"../x", []string{"..", "x"}},
	}
	for _, tc := range cases {
		got, err := Split(tc.path)
		if err != nil {
			t.Fatalf("Split(%q): %v", tc.path, err)
		}
		if len(got) != len(tc.want) {
			t.Errorf("Split(%q) = %v, want %v", tc.path, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Split(%q)[%d] = %q, want %q", tc.path, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSplit_LimitViolations(t *testing.T) {
	longName := strings.Repeat("a", NameMax+1)
	if _, err := Split("/" + longName); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("component over NameMax: expected ErrNameTooLong, got %v", err)
	}

	longPath := strings.Repeat("/ab", PathMax)
	if _, err := Split(longPath); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("path over PathMax: expected ErrNameTooLong, got %v", err)
	}

	// exactly at the limit is fine
	exact := strings.Repeat("a", NameMax)
	if _, err := Split("/" + exact); err != nil {
		t.Errorf("component at NameMax: unexpected error %v", err)
	}
}

func TestIsAbs(t *testing.T) {
	if !IsAbs("/etc") {
		t.Error("/etc should be absolute")
	}
	if IsAbs("etc") {
		t.Error("etc should be relative")
	}
}

func TestBase(t *testing.T) {
	if got := Base("/etc/passwd"); got != "passwd" {
		t.Errorf("Base = %q, want passwd", got)
	}
	if got := Base("/"); got != "" {
		t.Errorf("Base(/) = %q, want empty", got)
	}
}
