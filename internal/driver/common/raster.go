// internal/driver/common/raster.go
package common

import "printer-service/internal/imaging"

// RasterImage encodes bm as GS v 0 (print raster bit image, normal mode).
// Both ESC/POS families in this service understand it.
func RasterImage(bm *imaging.Bitmap) []byte {
	out := make([]byte, 0, 8+len(bm.Data))
	out = append(out,
		0x1D, 0x76, 0x30, 0x00, // GS v 0 m=0
		byte(bm.Stride), byte(bm.Stride>>8),
		byte(bm.Height), byte(bm.Height>>8),
	)
	return append(out, bm.Data...)
}
