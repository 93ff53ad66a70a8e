package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	f := NewFakeReader([]bool{true, false, true})

	motion, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !motion {
		t.Error("sample 0: expected true")
	}

	motion, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if motion {
		t.Error("sample 1: expected false")
	}

	motion, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !motion {
		t.Error("sample 2: expected true")
	}

	// Fourth read should repeat last sample
	motion, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !motion {
		t.Error("sample 3 (repeat): expected true")
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]bool{true})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewFakeReader([]bool{true})

	if f.Closed {
		t.Error("should not be closed initially")
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]bool{true, false})

	f.Read()
	f.Reset()

	motion, _ := f.Read()
	if !motion {
		t.Error("after reset: expected first sample (true)")
	}
}
