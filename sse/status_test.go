package sse

import (
	"encoding/json"
	"testing"
)

func TestStatusFor(t *testing.T) {
	st := statusFor(3, nil)
	if st.Fill != FillGreen || st.Shape != ShapeDot || st.Text != "3 client(s) connected" {
		t.Errorf("unexpected healthy status: %+v", st)
	}

	st = statusFor(0, errWrite)
	if st.Fill != FillRed || st.Shape != ShapeDot || st.Text != "0 client(s) connected" {
		t.Errorf("unexpected failure status: %+v", st)
	}
}

func TestStatusJSON(t *testing.T) {
	raw, err := json.Marshal(statusFor(1, nil))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"fill":"green","shape":"dot","text":"1 client(s) connected"}`
	if string(raw) != want {
		t.Errorf("expected %s, got %s", want, raw)
	}
}
