package nakama

import (
	"encoding/json"
	"fmt"

	"ludo/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// toStruct converts any JSON-encodable value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

// encodePayload renders v as protojson, the wire format of every server event.
func encodePayload(v any) ([]byte, error) {
	s, err := toStruct(v)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(s)
}

// decodePayload parses a client message. An empty body is an empty Struct.
func decodePayload(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// decodeSelectPiece reads the piece id from an OpSelectPiece message.
func decodeSelectPiece(data []byte) (domain.PieceID, error) {
	s, err := decodePayload(data)
	if err != nil {
		return domain.PieceID{}, fmt.Errorf("select piece: %w", err)
	}
	v, ok := s.GetFields()["piece"]
	if !ok || v.GetStringValue() == "" {
		return domain.PieceID{}, fmt.Errorf("select piece: missing piece")
	}
	return domain.ParsePieceID(v.GetStringValue())
}

// MatchLabel is the JSON label clients filter the match listing on.
type MatchLabel struct {
	Game    string       `json:"game"`
	Owner   string       `json:"owner"`
	Phase   domain.Phase `json:"phase"`
	Players int          `json:"players"`
}

func encodeLabel(label MatchLabel) (string, error) {
	s, err := toStruct(label)
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// gameErrorEvent is the OpGameError payload.
type gameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
