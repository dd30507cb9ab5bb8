package cmd

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

type flagSpec struct {
	name          string
	requiresValue bool
}

var knownFlags = map[string]flagSpec{
	"config":           {name: "config", requiresValue: true},
	"rules":            {name: "rules", requiresValue: true},
	"rules-source":     {name: "rules-source", requiresValue: true},
	"json":             {name: "json", requiresValue: false},
	"log-level":        {name: "log-level", requiresValue: true},
	"merge":            {name: "merge", requiresValue: false},
	"merge-score":      {name: "merge-score", requiresValue: true},
	"categorise":       {name: "categorise", requiresValue: false},
	"categorise-score": {name: "categorise-score", requiresValue: true},
	"show-merged":      {name: "show-merged", requiresValue: false},
	"unknown":          {name: "unknown", requiresValue: true},
	"copy":             {name: "copy", requiresValue: false},
	"output":           {name: "output", requiresValue: true},
	"write":            {name: "write", requiresValue: false},
	"query":            {name: "query", requiresValue: true},
	"step":             {name: "step", requiresValue: true},
	"help":             {name: "help", requiresValue: false},
}

var knownCommands = []string{
	"clean",
	"sort",
	"rules",
	"categories",
	"sweep",
	"watch",
	"tui",
	"completion",
	"help",
}

var flagAliases = map[string]string{
	"categorize":       "categorise",
	"categorize-score": "categorise-score",
	"category-score":   "categorise-score",
	"threshold":        "merge-score",
	"score":            "merge-score",
	"rules-file":       "rules",
	"rule-file":        "rules",
	"source":           "rules-source",
	"clipboard":        "copy",
	"out":              "output",
	"in-place":         "write",
	"search":           "query",
	"verbose":          "log-level",
}

func normalizeCLIArgs(args []string) ([]string, []string) {
	out := make([]string, 0, len(args))
	notes := make([]string, 0, 2)
	commandChosen := false
	activeCommand := ""
	nestedCommandAllowed := false
	nestedCommandChosen := false
	allowBareFlagRewrite := false
	expectingValue := false
	afterDoubleDash := false

	for i, tok := range args {
		if afterDoubleDash {
			out = append(out, tok)
			continue
		}

		if expectingValue {
			out = append(out, tok)
			expectingValue = false
			continue
		}

		if tok == "--" {
			out = append(out, tok)
			afterDoubleDash = true
			continue
		}

		canBeCommand := !commandChosen || (nestedCommandAllowed && !nestedCommandChosen)
		normalized, note, isFlag, needsValue, isCommand := normalizeToken(tok, canBeCommand, allowBareFlagRewrite)
		if note != "" {
			notes = append(notes, note)
		}
		out = append(out, normalized)

		if isCommand {
			if !commandChosen {
				commandChosen = true
				activeCommand = normalized
				allowBareFlagRewrite = bareFlagRewriteAllowed(activeCommand)
				nestedCommandAllowed = allowsNestedCommandArg(activeCommand)
				continue
			}
			if nestedCommandAllowed && !nestedCommandChosen {
				nestedCommandChosen = true
			}
		}
		if isFlag && needsValue && !strings.Contains(normalized, "=") && i < len(args)-1 {
			expectingValue = true
		}
	}

	return out, notes
}

func normalizeToken(tok string, canBeCommand bool, allowBareFlagRewrite bool) (normalized, note string, isFlag, needsValue, isCommand bool) {
	if tok == "--" || tok == "-" {
		return tok, "", false, false, false
	}

	if strings.HasPrefix(tok, "--") {
		flagName, rest := splitFlag(strings.TrimPrefix(tok, "--"))
		canonical, ok := resolveFlagName(flagName)
		if ok {
			newTok := "--" + canonical + rest
			if newTok != tok {
				return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
			}
			return newTok, "", true, knownFlags[canonical].requiresValue, false
		}
		return tok, "", true, false, false
	}

	if strings.HasPrefix(tok, "-") && len(tok) > 2 {
		flagName, rest := splitFlag(strings.TrimPrefix(tok, "-"))
		canonical, ok := resolveFlagName(flagName)
		if ok {
			newTok := "--" + canonical + rest
			return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
		}
		return tok, "", true, false, false
	}

	if looksLikePath(tok) {
		return tok, "", false, false, false
	}

	if strings.Contains(tok, "=") && !strings.HasPrefix(tok, "-") {
		flagName, rest := splitFlag(tok)
		canonical, ok := resolveFlagName(flagName)
		if ok {
			newTok := "--" + canonical + rest
			return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
		}
	}

	if canBeCommand && !strings.HasPrefix(tok, "-") {
		if corrected, ok := resolveCommand(tok); ok {
			if corrected != tok {
				return corrected, fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", tok, corrected, corrected), false, false, true
			}
			return tok, "", false, false, true
		}
	}

	if allowBareFlagRewrite && !strings.HasPrefix(tok, "-") {
		if spec, ok := knownFlags[strings.ToLower(tok)]; ok && !spec.requiresValue && spec.name != "help" {
			newTok := "--" + spec.name
			return newTok, rewriteNote(tok, newTok), true, false, false
		}
	}

	return tok, "", false, false, false
}

func rewriteNote(from, to string) string {
	return fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", from, to, to)
}

// looksLikePath reports whether a bare token is most likely an input file,
// which must never be rewritten into a flag or command.
func looksLikePath(tok string) bool {
	if strings.HasPrefix(tok, "-") || strings.Contains(tok, "=") {
		return false
	}
	return strings.ContainsAny(tok, `./\`)
}

func bareFlagRewriteAllowed(command string) bool {
	// Reporting commands take at most one input path, so rewriting bare
	// boolean tokens like `json` -> `--json` is safe there. Paths are
	// filtered out by looksLikePath first.
	switch command {
	case "rules", "categories", "sweep":
		return true
	default:
		return false
	}
}

func allowsNestedCommandArg(command string) bool {
	// These commands accept another command token as a positional argument.
	switch command {
	case "help", "completion":
		return true
	default:
		return false
	}
}

func resolveFlagName(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, "_", "-")

	if canonical, ok := flagAliases[name]; ok {
		return canonical, true
	}
	if _, ok := knownFlags[name]; ok {
		return name, true
	}

	if suggestion, ok := closestMatch(name, mapKeys(knownFlags), 2); ok {
		return suggestion, true
	}
	return "", false
}

func resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, cmd := range knownCommands {
		if name == cmd {
			return cmd, true
		}
	}
	if suggestion, ok := closestMatch(name, knownCommands, 2); ok {
		return suggestion, true
	}
	return "", false
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

func splitFlag(value string) (string, string) {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) == 2 {
		return parts[0], "=" + parts[1]
	}
	return value, ""
}

func extractUnknownValue(msg, marker string) string {
	idx := strings.Index(msg, marker)
	if idx == -1 {
		return ""
	}

	remaining := strings.TrimSpace(msg[idx+len(marker):])
	remaining = strings.TrimPrefix(remaining, ":")
	remaining = strings.TrimSpace(remaining)

	if strings.HasPrefix(remaining, "\"") {
		remaining = strings.TrimPrefix(remaining, "\"")
		end := strings.Index(remaining, "\"")
		if end >= 0 {
			return remaining[:end]
		}
	}

	if strings.HasPrefix(remaining, "`") {
		remaining = strings.TrimPrefix(remaining, "`")
		end := strings.Index(remaining, "`")
		if end >= 0 {
			return remaining[:end]
		}
	}

	if fields := strings.Fields(remaining); len(fields) > 0 {
		return strings.Trim(fields[0], "\"`")
	}
	return ""
}

func mapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// closestMatch returns the candidate nearest to target by edit distance.
// Ties go to the lexically smallest candidate so map iteration order never
// changes the answer.
func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1

	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(target, candidate)
		if d < bestDist || (d == bestDist && candidate < best) {
			bestDist = d
			best = candidate
		}
	}

	if bestDist <= maxDistance {
		return best, true
	}
	return "", false
}
