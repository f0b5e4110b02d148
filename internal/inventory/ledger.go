package inventory

import "sort"

// SortMoves orders moves by (TransactionID, Seq) in place.
func SortMoves(moves []Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		if moves[i].TransactionID != moves[j].TransactionID {
			return moves[i].TransactionID < moves[j].TransactionID
		}
		return moves[i].Seq < moves[j].Seq
	})
}

// DeriveLocations folds a ledger into the current location of every item
// that appears in it. The last move in (TransactionID, Seq) order wins.
// Items absent from the ledger are Unboxed; callers use LocationOf for that.
//
// The input slice is not modified.
func DeriveLocations(moves []Move) map[int64]Location {
	ordered := make([]Move, len(moves))
	copy(ordered, moves)
	SortMoves(ordered)

	locations := make(map[int64]Location, len(ordered))
	for _, m := range ordered {
		locations[m.ItemID] = m.Location
	}
	return locations
}

// LocationOf returns the location of itemID in a derived location map.
func LocationOf(locations map[int64]Location, itemID int64) Location {
	if loc, ok := locations[itemID]; ok {
		return loc
	}
	return Unboxed
}
