package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSumStable(t *testing.T) {
	if Sum([]byte("abc")) != Sum([]byte("abc")) {
		t.Fatal("same input should give same digest")
	}
	if Sum([]byte("abc")) == Sum([]byte("abd")) {
		t.Fatal("different input should give different digest")
	}
	if len(Sum(nil)) != 64 {
		t.Errorf("digest length = %d, want 64", len(Sum(nil)))
	}
}

func TestCombineDelimitsParts(t *testing.T) {
	if Combine("ab", "c") == Combine("a", "bc") {
		t.Error("part boundaries should affect the digest")
	}
	if Combine("a", "b") == Combine("b", "a") {
		t.Error("order should affect the digest")
	}
	if Combine("x") != Combine("x") {
		t.Error("same parts should give same digest")
	}
}

func TestCombineLengthPrefixIsLittleEndian(t *testing.T) {
	msg := []byte{3, 0, 0, 0, 0, 0, 0, 0, 'a', 'b', 'c', 0, 0, 0, 0, 0, 0, 0, 0}
	want := sha256.Sum256(msg)
	if got := Combine("abc", ""); got != hex.EncodeToString(want[:]) {
		t.Errorf("Combine(abc, \"\") = %s, want %x", got, want)
	}
}
