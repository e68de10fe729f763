package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewBookingCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^LOC-(\d+)-([0-9a-z]{9})$`)

	code := NewBookingCode()
	m := re.FindStringSubmatch(code)
	if m == nil {
		t.Fatalf("unexpected booking code format: %q", code)
	}

	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		t.Fatalf("timestamp segment not numeric: %v", err)
	}
	now := time.Now().UnixMilli()
	if ms > now || now-ms > int64(time.Minute/time.Millisecond) {
		t.Fatalf("timestamp segment %d not near now %d", ms, now)
	}
}

func TestNewBookingCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewBookingCode()
		token := code[strings.LastIndex(code, "-")+1:]
		if seen[token] {
			t.Fatalf("token repeated within 100 codes: %q", token)
		}
		seen[token] = true
	}
}
