// SPDX-License-Identifier: Unlicense OR MIT

package pointer

import (
	"testing"

	"github.com/imtouch/imtouch/f32"
)

func TestTypeString(t *testing.T) {
	for _, tc := range []struct {
		typ Kind
		res string
	}{
		{Press, "Press"},
		{Release, "Release"},
		{Move, "Move"},
		{Press | Release, "Press|Release"},
		{Move | Press | Release, "Move|Press|Release"},
	} {
		t.Run(tc.res, func(t *testing.T) {
			if want, got := tc.res, tc.typ.String(); want != got {
				t.Errorf("got %q; want %q", got, want)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	for _, tc := range []struct {
		e   Event
		res string
	}{
		{MoveTo(Touch, f32.Pt(100, 140)), "Touch Move (100,140)"},
		{Down(Pen, ButtonPrimary), "Pen Press ButtonPrimary"},
		{Up(Mouse, ButtonSecondary|ButtonTertiary), "Mouse Release ButtonSecondary|ButtonTertiary"},
	} {
		if got := tc.e.String(); got != tc.res {
			t.Errorf("got %q; want %q", got, tc.res)
		}
	}
}

func TestSourceStringPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("String of an unknown Source did not panic")
		}
	}()
	_ = Source(42).String()
}
