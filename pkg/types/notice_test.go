package types

import (
	"encoding/json"
	"testing"
)

func TestSuccessEnvelopeOmitsEmptyNotice(t *testing.T) {
	b, err := json.Marshal(SuccessEnvelope{Data: map[string]int{"count": 1}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"data":{"count":1}}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestNoticeConstructors(t *testing.T) {
	n := SuccessNotice("Client added successfully!")
	if n.Level != NoticeSuccess || n.Message != "Success" {
		t.Fatalf("unexpected notice %+v", n)
	}
	n = ErrorNotice("Failed to load products")
	if n.Level != NoticeError || n.Message != "Error" || n.Description != "Failed to load products" {
		t.Fatalf("unexpected notice %+v", n)
	}
}
