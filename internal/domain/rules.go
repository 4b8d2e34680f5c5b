package domain

// CanMove reports whether a piece standing on sq may move with the roll.
// Base needs the entry roll, Finished never moves, and everything else must
// land on or before the finish.
func CanMove(topo *Topology, seat int, sq Square, dice int) bool {
	if dice < 1 || dice > DiceFaces {
		return false
	}
	switch sq.Kind() {
	case SquareBase:
		return dice == EntryRoll
	case SquareFinished:
		return false
	default:
		return topo.DistanceOf(seat, sq)+dice <= topo.FinishDistance()
	}
}

// Destination is the square a piece on sq reaches with the roll. The move
// must already be known to be legal via CanMove.
func Destination(topo *Topology, seat int, sq Square, dice int) (Square, error) {
	if sq.IsBase() {
		return OnRing(topo.EntryOffset(seat)), nil
	}
	return topo.SquareAt(seat, topo.DistanceOf(seat, sq)+dice)
}

// EligiblePieces lists the seat's pieces that may move with the roll, in
// piece index order.
func EligiblePieces(r *Registry, seat int, dice int) []PieceID {
	var out []PieceID
	for _, pc := range r.Player(seat).Pieces {
		if CanMove(r.topo, seat, pc.Position, dice) {
			out = append(out, pc.ID)
		}
	}
	return out
}

// NextSeat is the seat after seat in turn order.
func NextSeat(topo *Topology, seat int) int {
	return (seat + 1) % topo.PlayerCount()
}
