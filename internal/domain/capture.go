package domain

// ResolveCapture sends every opposing piece sharing the landing ring square
// back to base. Safe squares, the home stretch and the center never capture.
// Returned ids are in seat then index order.
func ResolveCapture(r *Registry, mover PieceID, landing Square) ([]PieceID, error) {
	if !landing.IsOnRing() || r.topo.IsSafeSquare(landing.Index()) {
		return nil, nil
	}

	var captured []PieceID
	for _, id := range r.PiecesAt(landing) {
		if id.Owner == mover.Owner {
			continue
		}
		if err := r.SetPosition(id, Base()); err != nil {
			return captured, err
		}
		captured = append(captured, id)
	}
	return captured, nil
}
