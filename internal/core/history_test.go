package core

import (
	"fmt"
	"strings"
	"testing"
)

func makeHistory(n int) []Turn {
	turns := make([]Turn, 0, n)
	for i := 0; i < n; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		turns = append(turns, Turn{Role: role, Content: fmt.Sprintf("message %d", i+1)})
	}
	return turns
}

func TestCondenseHistoryEmpty(t *testing.T) {
	if got := CondenseHistory(nil); got != "" {
		t.Errorf("CondenseHistory(nil) = %q, want empty string", got)
	}
	if got := CondenseHistory([]Turn{}); got != "" {
		t.Errorf("CondenseHistory([]) = %q, want empty string", got)
	}
}

func TestCondenseHistoryShortVerbatim(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "write a sort function"},
		{Role: "assistant", Content: "here it is:\nfunc sort() {}"},
		{Role: "user", Content: "now explain it"},
	}

	want := "Conversation so far:\n" +
		"User: write a sort function\n" +
		"Assistant: here it is:\nfunc sort() {}\n" +
		"User: now explain it"

	if got := CondenseHistory(history); got != want {
		t.Errorf("CondenseHistory() = %q, want %q", got, want)
	}
}

func TestCondenseHistoryShortNeverTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	history := []Turn{{Role: "user", Content: long}}

	got := CondenseHistory(history)
	if !strings.Contains(got, long) {
		t.Errorf("short history should keep content verbatim, got %q", got)
	}
}

func TestCondenseHistoryNineTurns(t *testing.T) {
	history := makeHistory(9)
	got := CondenseHistory(history)

	if !strings.HasPrefix(got, "Earlier context (summarized):\n") {
		t.Fatalf("missing summary header in %q", got)
	}
	if bullets := strings.Count(got, "\n- "); bullets != 1 {
		t.Errorf("got %d summarized bullets, want 1", bullets)
	}
	if !strings.Contains(got, "- User: message 1") {
		t.Errorf("oldest turn missing from summary: %q", got)
	}

	_, recent, found := strings.Cut(got, "\nRecent messages:\n")
	if !found {
		t.Fatalf("missing recent header in %q", got)
	}
	recentLines := strings.Split(recent, "\n")
	if len(recentLines) != 8 {
		t.Errorf("got %d recent lines, want 8", len(recentLines))
	}
	for i, line := range recentLines {
		wantContent := fmt.Sprintf("message %d", i+2)
		if !strings.HasSuffix(line, wantContent) {
			t.Errorf("recent line %d = %q, want suffix %q", i, line, wantContent)
		}
	}
}

func TestCondenseHistorySummaryTruncation(t *testing.T) {
	long := strings.Repeat("a", 200)
	history := append([]Turn{{Role: "assistant", Content: long}}, makeHistory(8)...)

	got := CondenseHistory(history)

	lines := strings.Split(got, "\n")
	var bullet string
	for _, line := range lines {
		if strings.HasPrefix(line, "- ") {
			bullet = line
			break
		}
	}
	if bullet == "" {
		t.Fatalf("no summarized bullet in %q", got)
	}

	content := strings.TrimPrefix(bullet, "- Assistant: ")
	if len([]rune(content)) != 140 {
		t.Errorf("summarized content is %d chars, want exactly 140", len([]rune(content)))
	}
	if !strings.HasSuffix(content, "...") {
		t.Errorf("summarized content %q should end with ellipsis", content)
	}
}

func TestCondenseHistoryCollapsesNewlinesInSummary(t *testing.T) {
	history := append([]Turn{{Role: "user", Content: "line one\nline two"}}, makeHistory(8)...)

	got := CondenseHistory(history)
	if !strings.Contains(got, "- User: line one line two") {
		t.Errorf("newlines not collapsed in summary: %q", got)
	}
}

func TestCondenseHistorySkipsEmptyEarlierTurns(t *testing.T) {
	history := append([]Turn{
		{Role: "user", Content: ""},
		{Role: "assistant", Content: "kept"},
	}, makeHistory(8)...)

	got := CondenseHistory(history)
	if bullets := strings.Count(got, "\n- "); bullets != 1 {
		t.Errorf("got %d bullets, want 1 (empty turn skipped, not rendered)", bullets)
	}
	if !strings.Contains(got, "- Assistant: kept") {
		t.Errorf("non-empty earlier turn missing: %q", got)
	}
}

func TestCondenseHistoryRecentNotTruncated(t *testing.T) {
	history := makeHistory(8)
	long := strings.Repeat("z", 400)
	history = append(history, Turn{Role: "user", Content: long})

	got := CondenseHistory(history)
	if !strings.Contains(got, "User: "+long) {
		t.Errorf("recent turn should be verbatim, got %q", got)
	}
}
