package world

import "sort"

func sortChunks(chunks []*Chunk) {
	sort.Slice(chunks, func(i, j int) bool {
		a, b := chunks[i].Grid, chunks[j].Grid
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

func sortLocations(locs []*Location) {
	sort.Slice(locs, func(i, j int) bool {
		return locs[i].ID < locs[j].ID
	})
}
