// SPDX-License-Identifier: EPL-2.0

package device

import "math"

// Vector3 is a position, velocity or direction in 3-D space.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Quaternion is an orientation in 3-D space.
type Quaternion struct {
	W, X, Y, Z float64
}

// Forward returns the unit vector the orientation points at, matching the
// convention that an identity quaternion faces down the negative Z axis.
func (q Quaternion) Forward() Vector3 {
	return Vector3{
		X: -2 * (q.W*q.Y + q.X*q.Z),
		Y: 2 * (q.X*q.W - q.Z*q.Y),
		Z: 2*(q.X*q.X+q.Y*q.Y) - 1,
	}
}
