package core

import "strings"

// Turn is the in-memory projection of a stored message used to build the
// condensed history fed to the model.
type Turn struct {
	Role    string
	Content string
}

// Number of most recent turns kept verbatim when condensing history.
const maxRecentTurns = 8

// Maximum length of a summarized earlier turn, including the ellipsis.
const summaryLineLimit = 140

// CondenseHistory renders prior turns into a bounded transcript fragment:
// short histories are included verbatim, longer ones get older turns
// collapsed to one-line summaries while the last maxRecentTurns stay intact.
// Returns "" for an empty history.
func CondenseHistory(history []Turn) string {
	if len(history) == 0 {
		return ""
	}

	if len(history) <= maxRecentTurns {
		lines := []string{"Conversation so far:"}
		for _, turn := range history {
			lines = append(lines, speakerLabel(turn.Role)+": "+turn.Content)
		}
		return strings.Join(lines, "\n")
	}

	earlier := history[:len(history)-maxRecentTurns]
	recent := history[len(history)-maxRecentTurns:]

	lines := []string{"Earlier context (summarized):"}
	for _, turn := range earlier {
		if turn.Content == "" {
			continue
		}
		oneLine := strings.ReplaceAll(strings.TrimSpace(turn.Content), "\n", " ")
		if runes := []rune(oneLine); len(runes) > summaryLineLimit {
			oneLine = string(runes[:summaryLineLimit-3]) + "..."
		}
		lines = append(lines, "- "+speakerLabel(turn.Role)+": "+oneLine)
	}

	lines = append(lines, "", "Recent messages:")
	for _, turn := range recent {
		lines = append(lines, speakerLabel(turn.Role)+": "+turn.Content)
	}

	return strings.Join(lines, "\n")
}

func speakerLabel(role string) string {
	if role == "user" {
		return "User"
	}
	return "Assistant"
}
