package nakama

const (
	// RpcCreateTable creates a table owned by the caller and returns its match id.
	RpcCreateTable = "ludo_create_table"
	// RpcListTables lists the caller's running tables.
	RpcListTables = "ludo_list_tables"

	// MatchNameLudo is the authoritative match handler name registered with Nakama.
	MatchNameLudo = "ludo_match"

	// LabelGame tags ludo matches in the match listing.
	LabelGame = "ludo"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpRollDice    int64 = 1
	OpSelectPiece int64 = 2 // {"piece":"red:1"}
	OpResetGame   int64 = 3

	// Server -> Client events
	OpStateSnapshot int64 = 100
	OpDiceRolled    int64 = 101
	OpPieceMoved    int64 = 102
	OpGameError     int64 = 110
)

// Error codes carried by OpGameError.
const (
	ErrCodeBadRequest       = 400
	ErrCodeForbidden        = 403
	ErrCodeInvalidOperation = 409
	ErrCodeInternal         = 500
)

// gRPC status codes used for RPC errors.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)
