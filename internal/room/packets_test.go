package room

import (
	"bytes"
	"os"
	"testing"

	"github.com/Faultbox/dice-arena/internal/logger"
)

func TestMain(m *testing.M) {
	// Quiet logger for the client/server paths.
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestEncodeDecode(t *testing.T) {
	line, err := Encode(MsgRollRequest, RollRequest{From: "Velda", Notation: "d20+3"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasSuffix(line, []byte("\n")) {
		t.Error("wire lines must be newline-terminated")
	}

	env, err := Decode(bytes.TrimSpace(line))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if env.Type != MsgRollRequest {
		t.Errorf("type %q, want %q", env.Type, MsgRollRequest)
	}

	var req RollRequest
	if err := env.Unmarshal(&req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.From != "Velda" || req.Notation != "d20+3" {
		t.Errorf("payload mismatch: %+v", req)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("malformed line must fail to decode")
	}
	if _, err := Decode([]byte(`{"data":{}}`)); err == nil {
		t.Error("missing type must fail to decode")
	}
}
