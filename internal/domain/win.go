package domain

// HasFinished reports whether every piece of the player reached the center.
func HasFinished(p Player) bool {
	for _, pc := range p.Pieces {
		if !pc.Position.IsFinished() {
			return false
		}
	}
	return true
}

// DetectWinner checks the seat that just moved.
func DetectWinner(r *Registry, seat int) (PlayerID, bool) {
	p := r.Player(seat)
	if HasFinished(p) {
		return p.ID, true
	}
	return "", false
}
