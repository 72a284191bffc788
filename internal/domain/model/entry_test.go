package model

import (
	"encoding/json"
	"testing"
)

func TestCloneEntries(t *testing.T) {
	in := []Entry{{Name: "A", Score: 1}, {Name: "B", Score: 2}}
	out := CloneEntries(in)

	out[0].Name = "mutated"
	if in[0].Name != "A" {
		t.Error("expected clone to be independent of the original")
	}

	if CloneEntries(nil) != nil {
		t.Error("expected nil input to clone to nil")
	}
}

func TestEntryJSONShape(t *testing.T) {
	plain, err := json.Marshal(Entry{Name: "A", Score: 10})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(plain) != `{"name":"A","score":10}` {
		t.Errorf("unexpected JSON without time: %s", plain)
	}

	timed, err := json.Marshal(Entry{Name: "A", Score: 10, RecordedAt: 1700000000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(timed) != `{"name":"A","score":10,"time":1700000000}` {
		t.Errorf("unexpected JSON with time: %s", timed)
	}
}
