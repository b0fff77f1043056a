package particle

// Advance moves every particle by one velocity step, then reflects the
// velocity on each axis whose post-move coordinate lies outside bounds.
// The check happens after the move, so a particle overshoots an edge by up
// to one step before heading back. An axis with no extent never reflects.
func Advance(f *Field, b Bounds) {
	if f == nil {
		return
	}
	for i := range f.particles {
		p := &f.particles[i]
		p.X += p.VX
		p.Y += p.VY

		if b.Width > 0 && (p.X < 0 || p.X > b.Width) {
			p.VX = -p.VX
		}
		if b.Height > 0 && (p.Y < 0 || p.Y > b.Height) {
			p.VY = -p.VY
		}
	}
}
