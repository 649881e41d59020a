package templatecodec_test

import (
	"bytes"
	"errors"
	"testing"

	"whorl/internal/templatecodec"
)

func TestDecodeKnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"TWFu", []byte{0x4D, 0x61, 0x6E}},
		{"TWE=", []byte{0x4D, 0x61}},
		{"TQ==", []byte{0x4D}},
		{"TWFuTWFu", []byte("ManMan")},
	}

	dec := templatecodec.NewDecoder()
	for _, tc := range cases {
		got, err := dec.Decode([]byte(tc.in))
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", tc.in, err)
		}
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("Decode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDecodeStopsAtTerminator(t *testing.T) {
	dec := templatecodec.NewDecoder()
	for _, in := range []string{"TWFu\n", "TWFu\r\n", "TWFu garbage", "TWFu\tmore"} {
		got, err := dec.Decode([]byte(in))
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", in, err)
		}
		if !bytes.Equal(got, []byte("Man")) {
			t.Fatalf("Decode(%q) = %v, want Man", in, got)
		}
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	dec := templatecodec.NewDecoder()
	for _, in := range []string{"", "\n", " ", "\r\n"} {
		got, err := dec.Decode([]byte(in))
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", in, err)
		}
		if len(got) != 0 {
			t.Fatalf("Decode(%q) = %v, want empty", in, got)
		}
	}
}

func TestDecodeUnpaddedFinalBlock(t *testing.T) {
	dec := templatecodec.NewDecoder()

	got, err := dec.Decode([]byte("TQ"))
	if err != nil {
		t.Fatalf("Decode(TQ) returned error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x4D}) {
		t.Fatalf("Decode(TQ) = %v, want {0x4D}", got)
	}

	got, err = dec.Decode([]byte("TWE"))
	if err != nil {
		t.Fatalf("Decode(TWE) returned error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x4D, 0x61}) {
		t.Fatalf("Decode(TWE) = %v, want {0x4D, 0x61}", got)
	}
}

func TestDecodeRejectsInvalidSymbol(t *testing.T) {
	dec := templatecodec.NewDecoder()
	_, err := dec.Decode([]byte("TW*u"))
	if err == nil {
		t.Fatal("expected error for invalid symbol")
	}
	var decodeErr *templatecodec.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decodeErr.Byte != '*' || decodeErr.Offset != 2 {
		t.Fatalf("unexpected error detail: byte %q offset %d", decodeErr.Byte, decodeErr.Offset)
	}
}

func TestDecodeCoercesInvalidSymbol(t *testing.T) {
	dec := templatecodec.NewDecoder(templatecodec.WithPolicy(templatecodec.PolicyCoerce))

	// '*' coerces to symbol value 0, same as 'A'.
	got, err := dec.Decode([]byte("TW*u"))
	if err != nil {
		t.Fatalf("Decode returned error under coerce policy: %v", err)
	}
	want, err := dec.Decode([]byte("TWAu"))
	if err != nil {
		t.Fatalf("Decode reference returned error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("coerced decode = %v, want %v", got, want)
	}
}

func TestDecodeOrphanSymbolRejectedUnderBothPolicies(t *testing.T) {
	for _, policy := range []templatecodec.Policy{templatecodec.PolicyReject, templatecodec.PolicyCoerce} {
		dec := templatecodec.NewDecoder(templatecodec.WithPolicy(policy))
		if _, err := dec.Decode([]byte("TWFuT")); err == nil {
			t.Fatalf("policy %v: expected error for orphan final symbol", policy)
		}
	}
}

func TestDecodeMisplacedPadding(t *testing.T) {
	dec := templatecodec.NewDecoder()
	for _, in := range []string{"=AAA", "T=AA", "===="} {
		if _, err := dec.Decode([]byte(in)); err == nil {
			t.Fatalf("Decode(%q): expected misplaced padding error", in)
		}
	}
}

func TestDecodeBoundsOutput(t *testing.T) {
	dec := templatecodec.NewDecoder(templatecodec.WithMaxDecodedLen(3))

	if _, err := dec.Decode([]byte("TWFu")); err != nil {
		t.Fatalf("decode at bound returned error: %v", err)
	}

	_, err := dec.Decode([]byte("TWFuTWFu"))
	if err == nil {
		t.Fatal("expected error for output past bound")
	}
	var decodeErr *templatecodec.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	dec := templatecodec.NewDecoder()
	seeds := [][]byte{
		{0x4D},
		{0x4D, 0x61},
		{0x4D, 0x61, 0x6E},
		{0x00, 0xFF, 0x10, 0x20, 0x30},
		bytes.Repeat([]byte{0xAB, 0x00, 0x7F}, 100),
	}
	for _, seed := range seeds {
		encoded := templatecodec.Encode(seed)
		got, err := dec.Decode([]byte(encoded))
		if err != nil {
			t.Fatalf("round trip decode failed for %d bytes: %v", len(seed), err)
		}
		if !bytes.Equal(got, seed) {
			t.Fatalf("round trip mismatch for %d bytes", len(seed))
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := templatecodec.ParsePolicy("reject"); err != nil || p != templatecodec.PolicyReject {
		t.Fatalf("ParsePolicy(reject) = %v, %v", p, err)
	}
	if p, err := templatecodec.ParsePolicy("Coerce"); err != nil || p != templatecodec.PolicyCoerce {
		t.Fatalf("ParsePolicy(Coerce) = %v, %v", p, err)
	}
	if _, err := templatecodec.ParsePolicy("lenient"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
