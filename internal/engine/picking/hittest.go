package picking

// Candidate is a screen-projected pick target.
type Candidate struct {
	ID   string
	X, Y float32
}

// Nearest returns the candidate closest to the tap point within the
// threshold radius. Closest wins; ties keep the earlier candidate.
func Nearest(cands []Candidate, x, y, radius float32) (string, bool) {
	bestID := ""
	bestSq := float32(0)
	found := false
	maxSq := radius * radius
	for _, c := range cands {
		dx := c.X - x
		dy := c.Y - y
		distSq := dx*dx + dy*dy
		if distSq > maxSq {
			continue
		}
		if !found || distSq < bestSq {
			bestID = c.ID
			bestSq = distSq
			found = true
		}
	}
	return bestID, found
}
