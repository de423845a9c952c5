package usecase

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
)

// decodeWithFallback parses a model response that should contain JSON of type
// T. Responses wrapped in markdown code fences are unwrapped first. On any
// decode failure the supplied fallback is returned; malformed model output is
// not an error and the pipeline always advances with a usable value.
func decodeWithFallback[T any](log *zerolog.Logger, raw string, fallback T) T {
	var v T
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &v); err != nil {
		log.Warn().Err(err).Str("snippet", snippet(raw, 100)).Msg("model returned malformed JSON, using fallback")
		return fallback
	}
	return v
}

// stripCodeFence unwraps ```...``` blocks, dropping an optional language tag
// line such as "json".
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{}[]") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
