package render

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Identity leaves coordinates unchanged.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Mul returns the transform that applies b first, then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Translate returns a pure translation.
func Translate(dx, dy float64) f64.Aff3 {
	return f64.Aff3{1, 0, dx, 0, 1, dy}
}

// Scale returns a pure scale about the origin.
func Scale(sx, sy float64) f64.Aff3 {
	return f64.Aff3{sx, 0, 0, 0, sy, 0}
}

// Apply maps the point (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// MapRect returns the transform that maps src onto dst, scaling each axis
// independently. An empty src maps to Identity.
func MapRect(src image.Rectangle, dst image.Rectangle) f64.Aff3 {
	if src.Dx() == 0 || src.Dy() == 0 {
		return Identity
	}
	sx := float64(dst.Dx()) / float64(src.Dx())
	sy := float64(dst.Dy()) / float64(src.Dy())
	return Mul(Translate(float64(dst.Min.X), float64(dst.Min.Y)),
		Mul(Scale(sx, sy), Translate(-float64(src.Min.X), -float64(src.Min.Y))))
}

// LinearScale is the factor by which m scales lengths on average.
func LinearScale(m f64.Aff3) float64 {
	return math.Sqrt(math.Abs(m[0]*m[4] - m[1]*m[3]))
}
