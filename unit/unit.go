// SPDX-License-Identifier: Unlicense OR MIT

/*

Package unit implements device independent units and values.

Device independent pixel, or dp, is the unit for sizes independent of
the underlying display device. Pixels, or px, is the unit for display
dependent pixels. Their size vary between platforms and displays.

Gesture thresholds are specified in dp and converted to pixels with
the Metric of the frame being processed, so that a drag threshold keeps
the same physical size when the display scale changes.

*/
package unit

import (
	"fmt"
)

// Metric converts Values to device-dependent pixels, px. The zero
// value represents a 1-to-1 scale from dp to px.
type Metric struct {
	// PxPerDp is the device-dependent pixels per dp.
	PxPerDp float32
}

// Dp represents device independent pixels. 1 dp will
// have the same apparent size across platforms and
// display resolutions.
type Dp float32

// Px converts v to fractional pixels.
func (m Metric) Px(v Dp) float32 {
	return float32(v) * nonZero(m.PxPerDp)
}

func (v Dp) String() string {
	return fmt.Sprintf("%gdp", float32(v))
}

func nonZero(v float32) float32 {
	if v == 0. {
		return 1
	}
	return v
}
