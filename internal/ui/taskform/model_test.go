package taskform

import (
	"reflect"
	"testing"
)

func TestSplitRecipientsKeepsOrderAndDuplicates(t *testing.T) {
	raw := "+254712345678\n\n  +15550001111  \n+254712345678\n"

	got := splitRecipients(raw)
	want := []string{"+254712345678", "+15550001111", "+254712345678"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitRecipients = %v, want %v", got, want)
	}
}

func TestSplitRecipientsEmpty(t *testing.T) {
	if got := splitRecipients("\n  \n"); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}
