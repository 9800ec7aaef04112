package oflag

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Run("default is read-only", func(t *testing.T) {
		intent, appendMode, err := Validate(RDONLY)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent != ReadOnly {
			t.Errorf("expected ReadOnly, got %v", intent)
		}
		if appendMode {
			t.Error("append should not be set")
		}
	})

	t.Run("write only", func(t *testing.T) {
		intent, _, err := Validate(WRONLY)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent != WriteOnly {
			t.Errorf("expected WriteOnly, got %v", intent)
		}
	})

	t.Run("read write", func(t *testing.T) {
		intent, _, err := Validate(RDWR)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent != ReadWrite {
			t.Errorf("expected ReadWrite, got %v", intent)
		}
	})

	t.Run("wronly and rdwr together is invalid", func(t *testing.T) {
		_, _, err := Validate(WRONLY | RDWR)
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("invalid even with other bits set", func(t *testing.T) {
		for _, extra := range []Oflag{CREAT, TRUNC, APPEND, EXCL, CREAT | TRUNC | APPEND} {
			_, _, err := Validate(WRONLY | RDWR | extra)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("flags %#x: expected ErrInvalid, got %v", WRONLY|RDWR|extra, err)
			}
		}
	})

	t.Run("append is orthogonal", func(t *testing.T) {
		cases := []struct {
			flags  Oflag
			intent AccessIntent
		}{
			{APPEND, ReadOnly},
			{WRONLY | APPEND, WriteOnly},
			{RDWR | APPEND, ReadWrite},
		}
		for _, tc := range cases {
			intent, appendMode, err := Validate(tc.flags)
			if err != nil {
				t.Fatalf("flags %#x: unexpected error: %v", tc.flags, err)
			}
			if intent != tc.intent {
				t.Errorf("flags %#x: expected %v, got %v", tc.flags, tc.intent, intent)
			}
			if !appendMode {
				t.Errorf("flags %#x: append should be set", tc.flags)
			}
		}
	})

	t.Run("resolver bits pass through", func(t *testing.T) {
		intent, _, err := Validate(CREAT | TRUNC | EXCL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent != ReadOnly {
			t.Errorf("expected ReadOnly, got %v", intent)
		}
	})
}

func TestOflag_Has(t *testing.T) {
	f := WRONLY | CREAT | APPEND
	if !f.Has(CREAT) {
		t.Error("expected CREAT set")
	}
	if !f.Has(CREAT | APPEND) {
		t.Error("expected CREAT|APPEND set")
	}
	if f.Has(TRUNC) {
		t.Error("TRUNC should not be set")
	}
}
