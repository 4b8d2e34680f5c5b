package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"ludo/internal/bot"
	"ludo/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// CreateTableRequest is the ludo_create_table payload. Zero fields fall back
// to the game config.
type CreateTableRequest struct {
	PlayerCount int    `json:"player_count"`
	BotSeats    []int  `json:"bot_seats"`
	BotLevel    string `json:"bot_level"`
}

// CreateTableResponse is returned by ludo_create_table.
type CreateTableResponse struct {
	MatchID string `json:"match_id"`
}

// TableSummary describes one running table in ludo_list_tables.
type TableSummary struct {
	MatchID string     `json:"match_id"`
	Label   MatchLabel `json:"label"`
}

// ListTablesResponse is returned by ludo_list_tables.
type ListTablesResponse struct {
	Tables []TableSummary `json:"tables"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcCreateTable, rpcCreateTable); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcListTables, rpcListTables)
}

// parseCreateTable decodes and validates a create request against gc.
func parseCreateTable(payload string, gc config.GameConfig) (CreateTableRequest, error) {
	req := CreateTableRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return req, fmt.Errorf("invalid payload: %w", err)
		}
	}
	if req.PlayerCount == 0 {
		req.PlayerCount = gc.PlayerCount
	}
	if req.PlayerCount != 2 && req.PlayerCount != 4 {
		return req, fmt.Errorf("player_count %d: want 2 or 4", req.PlayerCount)
	}
	if req.BotLevel == "" {
		req.BotLevel = gc.BotLevel
	}
	if _, err := bot.ParseBotLevel(req.BotLevel); err != nil {
		return req, err
	}

	seen := make(map[int]bool, len(req.BotSeats))
	for _, seat := range req.BotSeats {
		if seat < 0 || seat >= req.PlayerCount {
			return req, fmt.Errorf("bot seat %d outside [0,%d)", seat, req.PlayerCount)
		}
		if seen[seat] {
			return req, fmt.Errorf("bot seat %d listed twice", seat)
		}
		seen[seat] = true
	}
	if len(req.BotSeats) == req.PlayerCount {
		return req, fmt.Errorf("at least one seat must be played by the owner")
	}
	slices.Sort(req.BotSeats)
	return req, nil
}

func rpcCreateTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}

	req, err := parseCreateTable(payload, config.GetGameConfig())
	if err != nil {
		logger.Warn("RpcCreateTable [User:%s]: %v", userID, err)
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	table, err := json.Marshal(req)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameLudo, map[string]interface{}{
		paramOwner: userID,
		paramTable: string(table),
	})
	if err != nil {
		logger.Error("RpcCreateTable [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	logger.Info("RpcCreateTable [User:%s]: Created table %s (players=%d, bots=%v)", userID, matchID, req.PlayerCount, req.BotSeats)
	out, err := json.Marshal(CreateTableResponse{MatchID: matchID})
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(out), nil
}

func rpcListTables(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}

	query := fmt.Sprintf("+label.game:%s +label.owner:%s", LabelGame, strconv.Quote(userID))
	matches, err := nk.MatchList(ctx, 20, true, "", nil, nil, query)
	if err != nil {
		logger.Error("RpcListTables [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}

	resp := ListTablesResponse{Tables: make([]TableSummary, 0, len(matches))}
	for _, m := range matches {
		var label MatchLabel
		if err := json.Unmarshal([]byte(m.GetLabel().GetValue()), &label); err != nil {
			logger.Warn("RpcListTables: match %s has unreadable label: %v", m.GetMatchId(), err)
			continue
		}
		resp.Tables = append(resp.Tables, TableSummary{MatchID: m.GetMatchId(), Label: label})
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(out), nil
}
