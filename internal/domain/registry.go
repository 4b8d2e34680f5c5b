package domain

import "fmt"

// Registry owns the position of every piece and the seat order. It is the
// only place piece positions change.
type Registry struct {
	topo   *Topology
	state  GameState
	seatOf map[PlayerID]int
}

// NewRegistry seats ids in order with every piece at Base.
func NewRegistry(topo *Topology, ids []PlayerID) (*Registry, error) {
	if len(ids) != topo.PlayerCount() {
		return nil, fmt.Errorf("%w: %d player ids for %d seats", ErrInvalidConfig, len(ids), topo.PlayerCount())
	}

	r := &Registry{
		topo:   topo,
		seatOf: make(map[PlayerID]int, len(ids)),
		state: GameState{
			Players: make([]Player, len(ids)),
			Phase:   PhaseAwaitingRoll,
		},
	}
	for seat, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: empty player id at seat %d", ErrInvalidConfig, seat)
		}
		if _, dup := r.seatOf[id]; dup {
			return nil, fmt.Errorf("%w: duplicate player id %q", ErrInvalidConfig, id)
		}
		r.seatOf[id] = seat

		p := Player{ID: id, Seat: seat, EntryOffset: topo.EntryOffset(seat)}
		for i := range p.Pieces {
			p.Pieces[i] = Piece{ID: PieceID{Owner: id, Index: i}, Position: Base()}
		}
		r.state.Players[seat] = p
	}
	return r, nil
}

// Topology returns the board the registry was built for.
func (r *Registry) Topology() *Topology { return r.topo }

// State exposes the live state to the owning controller. Callers outside the
// engine should use Snapshot.
func (r *Registry) State() *GameState { return &r.state }

// Snapshot returns a deep copy of the state.
func (r *Registry) Snapshot() GameState { return r.state.Clone() }

// Seat returns the turn order index of a player.
func (r *Registry) Seat(id PlayerID) (int, bool) {
	seat, ok := r.seatOf[id]
	return seat, ok
}

// Player returns the player at seat.
func (r *Registry) Player(seat int) Player { return r.state.Players[seat] }

// Piece looks up a piece by id.
func (r *Registry) Piece(id PieceID) (Piece, error) {
	p, err := r.piecePtr(id)
	if err != nil {
		return Piece{}, err
	}
	return *p, nil
}

func (r *Registry) piecePtr(id PieceID) (*Piece, error) {
	seat, ok := r.seatOf[id.Owner]
	if !ok || id.Index < 0 || id.Index >= PiecesPerPlayer {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPiece, id)
	}
	return &r.state.Players[seat].Pieces[id.Index], nil
}

// DistanceTraveled is the piece's progress along its own track.
func (r *Registry) DistanceTraveled(id PieceID) (int, error) {
	p, err := r.piecePtr(id)
	if err != nil {
		return 0, err
	}
	return r.topo.DistanceOf(r.seatOf[id.Owner], p.Position), nil
}

// SetPosition moves a piece. Only forward moves are accepted, plus the
// capture reset to Base; a piece leaves base onto its entry square.
func (r *Registry) SetPosition(id PieceID, sq Square) error {
	p, err := r.piecePtr(id)
	if err != nil {
		return err
	}
	if !r.topo.ValidSquare(sq) {
		return fmt.Errorf("%w: square %s not on board", ErrInvalidConfig, sq)
	}
	if sq.IsBase() {
		p.Position = sq
		return nil
	}

	seat := r.seatOf[id.Owner]
	if p.Position.IsBase() {
		if sq != OnRing(r.topo.EntryOffset(seat)) {
			return fmt.Errorf("%w: %s must leave base onto its entry square, not %s", ErrIllegalMove, id, sq)
		}
		p.Position = sq
		return nil
	}
	if r.topo.DistanceOf(seat, sq) <= r.topo.DistanceOf(seat, p.Position) {
		return fmt.Errorf("%w: %s from %s to %s is not forward", ErrIllegalMove, id, p.Position, sq)
	}
	p.Position = sq
	return nil
}

// PiecesAt lists every piece standing on sq, in seat then index order.
func (r *Registry) PiecesAt(sq Square) []PieceID {
	var out []PieceID
	for _, pl := range r.state.Players {
		for _, pc := range pl.Pieces {
			if pc.Position == sq {
				out = append(out, pc.ID)
			}
		}
	}
	return out
}
