package maelstrom_test

import (
	"errors"
	"fmt"
	"testing"

	maelstrom "github.com/jojohanhannesnes/pestis-incendium"
)

func TestErrorStage(t *testing.T) {
	for _, tt := range []struct {
		err   error
		stage string
	}{
		{&maelstrom.DecodeError{Err: errors.New("x")}, maelstrom.StageDecode},
		{&maelstrom.EncodeError{Err: errors.New("x")}, maelstrom.StageEncode},
		{&maelstrom.ProtocolViolation{Src: "n2", Type: "init_ok"}, maelstrom.StageProtocol},
		{fmt.Errorf("step: %w", &maelstrom.ProtocolViolation{Src: "n2", Type: "read_ok"}), maelstrom.StageProtocol},
		{errors.New("other"), ""},
		{nil, ""},
	} {
		if got, want := maelstrom.ErrorStage(tt.err), tt.stage; got != want {
			t.Errorf("stage(%v)=%q, want %q", tt.err, got, want)
		}
	}
}

func TestErrors_Error(t *testing.T) {
	cause := errors.New("boom")
	for _, tt := range []struct {
		err  error
		text string
	}{
		{&maelstrom.DecodeError{Err: cause}, `decode message: boom`},
		{&maelstrom.EncodeError{Err: cause}, `encode message: boom`},
		{&maelstrom.ProtocolViolation{Src: "n2", Type: "topology_ok"}, `protocol violation: unexpected topology_ok from "n2"`},
	} {
		if got, want := tt.err.Error(), tt.text; got != want {
			t.Errorf("error=%s, want %s", got, want)
		}
	}

	if !errors.Is(&maelstrom.DecodeError{Err: cause}, cause) {
		t.Fatal("expected DecodeError to unwrap to its cause")
	} else if !errors.Is(&maelstrom.EncodeError{Err: cause}, cause) {
		t.Fatal("expected EncodeError to unwrap to its cause")
	}
}
