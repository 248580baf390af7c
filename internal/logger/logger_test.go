package logger_test

import (
	"testing"

	"github.com/jsqueeze/jsqueeze/internal/logger"
)

func TestDeferLogHasErrorsOnlyAfterAnError(t *testing.T) {
	log := logger.NewDeferLog()
	if log.HasErrors() {
		t.Fatalf("expected a fresh log to report no errors")
	}
	log.AddMsg(logger.Msg{Kind: logger.Warning, Data: logger.MsgData{Text: "just a warning"}})
	if log.HasErrors() {
		t.Fatalf("expected a warning to not count as an error")
	}
	source := &logger.Source{Contents: "let x = 1;", PrettyPath: "in.js"}
	log.AddError(source, logger.Loc{Start: 4}, "syntax error")
	if !log.HasErrors() {
		t.Fatalf("expected AddError to mark the log as having errors")
	}
}

func TestAddErrorResolvesLineAndColumn(t *testing.T) {
	log := logger.NewDeferLog()
	source := &logger.Source{Contents: "let x = 1;\nlet y = ;\n", PrettyPath: "in.js"}
	log.AddError(source, logger.Loc{Start: 19}, "unexpected token")

	msgs := log.Done()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(msgs))
	}
	loc := msgs[0].Data.Location
	if loc == nil {
		t.Fatalf("expected a resolved location")
	}
	if loc.File != "in.js" || loc.Line != 2 || loc.Column != 8 {
		t.Fatalf("expected in.js:2:8, got %s:%d:%d", loc.File, loc.Line, loc.Column)
	}
	if loc.LineText != "let y = ;" {
		t.Fatalf("expected the line's text to be captured, got %q", loc.LineText)
	}
}

func TestDoneSortsMessagesByLocation(t *testing.T) {
	log := logger.NewDeferLog()
	source := &logger.Source{Contents: "aaaa\nbbbb\ncccc\n", PrettyPath: "in.js"}

	// Report out of order on purpose; Done must hand them back sorted.
	log.AddError(source, logger.Loc{Start: 10}, "third")
	log.AddError(source, logger.Loc{Start: 0}, "first")
	log.AddError(source, logger.Loc{Start: 5}, "second")

	msgs := log.Done()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if msgs[i].Data.Text != want {
			t.Fatalf("message %d: expected %q, got %q", i, want, msgs[i].Data.Text)
		}
	}
}

func TestLocationOrNilWithNilSource(t *testing.T) {
	if loc := logger.LocationOrNil(nil, logger.Range{}); loc != nil {
		t.Fatalf("expected a nil source to produce a nil location, got %+v", loc)
	}
}
