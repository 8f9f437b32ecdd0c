package physics

import (
	"math"

	"github.com/zeusync/skirmish/internal/core/models"
)

// Vec3 is a world-space vector. y is up; gameplay distances are measured on
// the x/z ground plane.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// FromPosition lifts a Position component into a vector.
func FromPosition(p models.Position) Vec3 { return Vec3{X: p.X, Y: p.Y, Z: p.Z} }

// Position converts the vector back into a Position component.
func (v Vec3) Position() models.Position { return models.Position{X: v.X, Y: v.Y, Z: v.Z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }

// LengthXZ is the vector length projected onto the ground plane.
func (v Vec3) LengthXZ() float64 { return math.Hypot(v.X, v.Z) }

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, z1, x2, z2 float64) float64 { return math.Hypot(x2-x1, z2-z1) }

// DistanceXZ is the ground-plane distance between two vectors.
func DistanceXZ(a, b Vec3) float64 { return Distance2(a.X, a.Z, b.X, b.Z) }

// PositionDistance is the ground-plane distance between two Position components.
func PositionDistance(a, b models.Position) float64 { return Distance2(a.X, a.Z, b.X, b.Z) }

// MoveTowardsXZ steps from towards to by at most step on the ground plane,
// keeping the y of from. It reports whether to was reached.
func MoveTowardsXZ(from, to Vec3, step float64) (Vec3, bool) {
	delta := Vec3{X: to.X - from.X, Z: to.Z - from.Z}
	dist := delta.LengthXZ()
	if dist <= step || dist == 0 {
		return Vec3{X: to.X, Y: from.Y, Z: to.Z}, true
	}
	k := step / dist
	return Vec3{X: from.X + delta.X*k, Y: from.Y, Z: from.Z + delta.Z*k}, false
}
