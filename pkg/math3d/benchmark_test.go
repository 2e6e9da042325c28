package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.MulVec4(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v1.Cross(v2)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	// Same composition the render pipeline builds once per frame
	view := Translate(V3(0, 0, -5)).Mul(RotateX(0.3)).Mul(RotateY(0.7)).ScaleAll(1.5)
	proj := Perspective(math.Pi/3, 1.333, 0.1, 100.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = proj.Mul(view)
	}
}
