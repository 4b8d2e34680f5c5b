package bot

// Tuning weighs the features of a candidate move for SmartBot.
type Tuning struct {
	FinishWeight   float64
	CaptureWeight  float64 // per captured piece
	EnterWeight    float64
	SafeWeight     float64 // landing on a safe square or the home stretch
	EscapeWeight   float64 // leaving a threatened ring square
	DangerPenalty  float64 // landing where an opponent can reach next roll
	ProgressWeight float64 // scaled by the fraction of the track covered
}

// DefaultTuning prefers captures and finishing, then getting pieces out and
// out of reach.
var DefaultTuning = Tuning{
	FinishWeight:   60,
	CaptureWeight:  50,
	EnterWeight:    35,
	SafeWeight:     15,
	EscapeWeight:   20,
	DangerPenalty:  25,
	ProgressWeight: 10,
}
