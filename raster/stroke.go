// seehuhn.de/go/brushmask - brush masks for image text removal
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeSegment is a flattened piece of a stroked path.
type strokeSegment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent, A to B
	N    vec.Vec2 // unit normal, T rotated by +90°
}

// Stroke paints the outline of p using Width, Cap, Join and MiterLimit.
// The outlines of all subpaths are filled together with the nonzero rule,
// so that overlapping parts of a stroke are painted only once.
// The coverage slice passed to emit is only valid during the call.
func (r *Rasteriser) Stroke(p path.Path, emit func(y, xMin int, coverage []float32)) {
	r.flattenPath(p)
	if len(r.segsOffsets) == 0 && len(r.degeneratePoints) == 0 {
		return
	}

	r.stroke = r.stroke[:0]
	r.strokeOffsets = r.strokeOffsets[:0]

	// A subpath without extent has no direction. Only round caps make
	// it visible, as a disc of the stroke width. The disc is traced in the
	// same rotational sense as the segment outlines, so that overlaps with
	// other subpaths add up under the nonzero rule.
	if r.Cap == graphics.LineCapRound {
		for _, pt := range r.degeneratePoints {
			start := len(r.stroke)
			r.addArc(pt, r.Width/2, vec.Vec2{X: 1, Y: 0}, -2*math.Pi, true)
			r.strokeOffsets = append(r.strokeOffsets, start)
		}
	}

	for i := range r.segsOffsets {
		start := len(r.stroke)
		segs := r.subpathSegments(i)
		if r.subpathClosed[i] {
			r.strokeClosed(segs)
		} else {
			r.strokeOpen(segs)
		}
		if len(r.stroke)-start >= 3 {
			r.strokeOffsets = append(r.strokeOffsets, start)
		} else {
			r.stroke = r.stroke[:start]
		}
	}

	r.fillStrokeOutlines(emit)
}

// subpathSegments returns the flattened segments of subpath i.
func (r *Rasteriser) subpathSegments(i int) []strokeSegment {
	end := len(r.segs)
	if i+1 < len(r.segsOffsets) {
		end = r.segsOffsets[i+1]
	}
	return r.segs[r.segsOffsets[i]:end]
}

// flattenPath splits p into subpaths of straight segments. Subpaths which
// consist of a single point are collected in r.degeneratePoints.
func (r *Rasteriser) flattenPath(p path.Path) {
	r.segs = r.segs[:0]
	r.segsOffsets = r.segsOffsets[:0]
	r.subpathClosed = r.subpathClosed[:0]
	r.degeneratePoints = r.degeneratePoints[:0]

	var current, start vec.Vec2
	startIdx := 0
	inSubpath := false
	drawn := false // whether the current subpath has a drawing command

	finish := func(closed bool) {
		if len(r.segs) == startIdx {
			r.degeneratePoints = append(r.degeneratePoints, start)
			return
		}
		r.segsOffsets = append(r.segsOffsets, startIdx)
		r.subpathClosed = append(r.subpathClosed, closed)
	}

	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if inSubpath && drawn {
				finish(false)
			}
			current = pts[0]
			start = current
			startIdx = len(r.segs)
			inSubpath = true
			drawn = false

		case path.CmdLineTo:
			if !inSubpath {
				continue
			}
			drawn = true
			r.addStrokeSegment(current, pts[0])
			current = pts[0]

		case path.CmdQuadTo:
			if !inSubpath {
				continue
			}
			drawn = true
			r.flattenQuadratic(current, pts[0], pts[1], r.addStrokeSegment)
			current = pts[1]

		case path.CmdCubeTo:
			if !inSubpath {
				continue
			}
			drawn = true
			r.flattenCubic(current, pts[0], pts[1], pts[2], r.addStrokeSegment)
			current = pts[2]

		case path.CmdClose:
			if !inSubpath {
				continue
			}
			if current != start {
				r.addStrokeSegment(current, start)
			}
			finish(true)
			current = start
			startIdx = len(r.segs)
			inSubpath = false
			drawn = false
		}
	}

	if inSubpath && drawn {
		finish(false)
	}
}

// addStrokeSegment appends a segment to the flattening buffer.
// Zero-length segments are skipped.
func (r *Rasteriser) addStrokeSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	length := d.Length()
	if length < zeroLengthThreshold {
		return
	}
	t := d.Mul(1 / length)
	r.segs = append(r.segs, strokeSegment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

// cross returns the z component of the cross product of two tangents.
// Positive values mean the path turns towards +N.
func cross(t1, t2 vec.Vec2) float64 {
	return t1.X*t2.Y - t1.Y*t2.X
}

// strokeOpen appends the outline of an open subpath to r.stroke: a cap at
// the start, the +N side forwards, a cap at the end and the -N side
// backwards. Joins are added on the outer side of each corner.
func (r *Rasteriser) strokeOpen(segs []strokeSegment) {
	d := r.Width / 2
	first := &segs[0]
	last := &segs[len(segs)-1]

	r.addCap(first.A, first.T.Mul(-1), d)

	skip := false
	for i := range segs {
		seg := &segs[i]
		if !skip {
			r.stroke = append(r.stroke, seg.A.Add(seg.N.Mul(d)))
		}
		skip = false
		if i == len(segs)-1 {
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
			continue
		}
		next := &segs[i+1]
		s := cross(seg.T, next.T)
		switch {
		case math.Abs(s) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
		case s > 0:
			skip = r.addInnerCorner(seg.B, seg.T, next.T, seg.N, next.N, d, true)
		default:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
			r.addJoin(seg.B, seg.T, next.T, d, true)
		}
	}

	r.addCap(last.B, last.T, d)

	skip = false
	for i := len(segs) - 1; i >= 0; i-- {
		seg := &segs[i]
		if !skip {
			r.stroke = append(r.stroke, seg.B.Sub(seg.N.Mul(d)))
		}
		skip = false
		if i == 0 {
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			continue
		}
		prev := &segs[i-1]
		s := cross(prev.T, seg.T)
		switch {
		case math.Abs(s) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
		case s > 0:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			r.addJoin(seg.A, prev.T, seg.T, d, false)
		default:
			skip = r.addInnerCorner(seg.A, prev.T, seg.T, prev.N, seg.N, d, false)
		}
	}
}

// strokeClosed appends the outline of a closed subpath to r.stroke. There
// are no caps; the corner between the last and the first segment is
// joined like every other corner.
func (r *Rasteriser) strokeClosed(segs []strokeSegment) {
	d := r.Width / 2
	first := &segs[0]
	last := &segs[len(segs)-1]
	sClose := cross(last.T, first.T)

	r.stroke = append(r.stroke, first.A.Add(first.N.Mul(d)))
	for i := range segs {
		seg := &segs[i]
		next := first
		s := sClose
		if i < len(segs)-1 {
			next = &segs[i+1]
			s = cross(seg.T, next.T)
		}
		switch {
		case math.Abs(s) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)), next.A.Add(next.N.Mul(d)))
		case s > 0:
			r.addInnerCorner(seg.B, seg.T, next.T, seg.N, next.N, d, true)
		default:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
			r.addJoin(seg.B, seg.T, next.T, d, true)
			r.stroke = append(r.stroke, next.A.Add(next.N.Mul(d)))
		}
	}

	switch {
	case math.Abs(sClose) < collinearityThreshold:
		r.stroke = append(r.stroke, first.A.Sub(first.N.Mul(d)), last.B.Sub(last.N.Mul(d)))
	case sClose > 0:
		r.stroke = append(r.stroke, first.A.Sub(first.N.Mul(d)))
		r.addJoin(first.A, last.T, first.T, d, false)
		r.stroke = append(r.stroke, last.B.Sub(last.N.Mul(d)))
	default:
		r.addInnerCorner(first.A, last.T, first.T, last.N, first.N, d, false)
	}

	for i := len(segs) - 1; i >= 0; i-- {
		seg := &segs[i]
		if i == 0 {
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			continue
		}
		prev := &segs[i-1]
		s := cross(prev.T, seg.T)
		switch {
		case math.Abs(s) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)), prev.B.Sub(prev.N.Mul(d)))
		case s > 0:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			r.addJoin(seg.A, prev.T, seg.T, d, false)
			r.stroke = append(r.stroke, prev.B.Sub(prev.N.Mul(d)))
		default:
			r.addInnerCorner(seg.A, prev.T, seg.T, prev.N, seg.N, d, false)
		}
	}
}

// addCap adds a line cap at P. T points away from the stroke and d is half
// the stroke width.
func (r *Rasteriser) addCap(P, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}

	switch r.Cap {
	case graphics.LineCapSquare:
		ext := P.Add(T.Mul(d))
		r.stroke = append(r.stroke, ext.Add(N.Mul(d)), ext.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		// half circle from +N through T to -N
		r.addArc(P, d, N, -math.Pi, true)
	}
}

// innerIntersection returns the point where the two offset lines on the
// inner side of a corner at P meet.
func innerIntersection(P, T1, T2 vec.Vec2, d float64, positiveSide bool) (vec.Vec2, bool) {
	cosTheta := T1.Dot(T2)
	if cosTheta > 1-1e-9 {
		return vec.Vec2{}, false
	}
	halfAngle := math.Sqrt((1 + cosTheta) / 2)
	if halfAngle < 1e-9 {
		return vec.Vec2{}, false
	}

	dir := vec.Vec2{X: -T1.Y, Y: T1.X}.Add(vec.Vec2{X: -T2.Y, Y: T2.X})
	if !positiveSide {
		dir = dir.Mul(-1)
	}
	l := dir.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return P.Add(dir.Mul(d / (l * halfAngle))), true
}

// addInnerCorner adds the inner side of a corner. If the offset lines
// intersect, only the intersection point is added and the result is true;
// the caller then omits the next offset point.
func (r *Rasteriser) addInnerCorner(P, T1, T2, N1, N2 vec.Vec2, d float64, positiveSide bool) bool {
	if pt, ok := innerIntersection(P, T1, T2, d, positiveSide); ok {
		r.stroke = append(r.stroke, pt)
		return true
	}
	if positiveSide {
		r.stroke = append(r.stroke, P.Add(N1.Mul(d)), P.Add(N2.Mul(d)))
	} else {
		r.stroke = append(r.stroke, P.Sub(N1.Mul(d)), P.Sub(N2.Mul(d)))
	}
	return false
}

// addJoin adds the outer side of a corner at P, where the tangent changes
// from T1 to T2.
func (r *Rasteriser) addJoin(P, T1, T2 vec.Vec2, d float64, positiveSide bool) {
	cosTheta := T1.Dot(T2)
	sinTheta := cross(T1, T2)
	if math.Abs(sinTheta) < collinearityThreshold {
		return
	}

	if cosTheta < cuspCosineThreshold {
		// the path turns back on itself
		r.addCap(P, T1, d)
		r.addCap(P, T2.Mul(-1), d)
		return
	}

	switch r.Join {
	case graphics.LineJoinMiter:
		// The miter length relative to the width is 1/cos(θ/2), where θ
		// is the angle between the tangents.
		cosHalf := math.Sqrt((1 + cosTheta) / 2)
		const eps = 1e-10
		if cosHalf > 0 && 1/cosHalf <= r.MiterLimit+eps {
			bisector := vec.Vec2{X: -T1.Y, Y: T1.X}.Add(vec.Vec2{X: -T2.Y, Y: T2.X})
			if !positiveSide {
				bisector = bisector.Mul(-1)
			}
			if l := bisector.Length(); l > zeroLengthThreshold {
				r.stroke = append(r.stroke, P.Add(bisector.Mul(d/(l*cosHalf))))
			}
		}
		// otherwise fall back to a bevel, which needs no extra points

	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cosTheta)))
		if positiveSide {
			start := vec.Vec2{X: -T1.Y, Y: T1.X}
			if sinTheta < 0 {
				angle = -angle
			}
			r.addArc(P, d, start, angle, false)
		} else {
			// walking backwards: from -N of T2 to -N of T1
			start := vec.Vec2{X: T2.Y, Y: -T2.X}
			if sinTheta > 0 {
				angle = -angle
			}
			r.addArc(P, d, start, angle, false)
		}
	}
}

// addArc appends points on a circular arc around center to r.stroke.
// The arc starts in direction startDir and sweeps the given angle
// (positive is counter-clockwise in a y-up frame). If includeStart is
// false, the start point is assumed to be present already.
func (r *Rasteriser) addArc(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64, includeStart bool) {
	rotate := func(a float64) vec.Vec2 {
		c, s := math.Cos(a), math.Sin(a)
		return vec.Vec2{
			X: startDir.X*c - startDir.Y*s,
			Y: startDir.X*s + startDir.Y*c,
		}
	}

	if radius < r.Flatness {
		if includeStart {
			r.stroke = append(r.stroke, center.Add(startDir.Mul(radius)))
		}
		r.stroke = append(r.stroke, center.Add(rotate(sweep).Mul(radius)))
		return
	}

	// A chord spanning angle φ deviates from the circle by r·(1-cos(φ/2)).
	step := 2 * math.Acos(1-r.Flatness/radius)
	if step <= 0 || math.IsNaN(step) {
		step = math.Pi / 4
	}
	n := max(int(math.Ceil(math.Abs(sweep)/step)), 1)

	dt := sweep / float64(n)
	i := 0
	if !includeStart {
		i = 1
	}
	for ; i <= n; i++ {
		r.stroke = append(r.stroke, center.Add(rotate(float64(i)*dt).Mul(radius)))
	}
}

// fillStrokeOutlines fills all collected stroke polygons as one compound
// shape.
func (r *Rasteriser) fillStrokeOutlines(emit func(y, xMin int, coverage []float32)) {
	if len(r.strokeOffsets) == 0 {
		return
	}

	r.edges = r.edges[:0]
	r.edgeBBoxFirst = true
	for i, start := range r.strokeOffsets {
		end := len(r.stroke)
		if i+1 < len(r.strokeOffsets) {
			end = r.strokeOffsets[i+1]
		}
		poly := r.stroke[start:end]
		if len(poly) < 2 {
			continue
		}
		for j := 1; j < len(poly); j++ {
			r.addEdge(poly[j-1], poly[j])
		}
		r.addEdge(poly[len(poly)-1], poly[0])
	}

	xMin, xMax, yMin, yMax, ok := r.edgeBounds()
	if !ok {
		return
	}
	r.fillEdges(xMin, xMax, yMin, yMax, emit)
}
