package coordinator

import (
	"regexp"
	"strings"
	"sync"

	"github.com/kyokomi/emoji/v2"
)

var shortcode = regexp.MustCompile(`:[a-zA-Z0-9_+\-]+:`)

// emojize заменяет известные :коды: на символы, неизвестные оставляет как есть
func emojize(s string) string {
	codes := emoji.CodeMap()
	return shortcode.ReplaceAllStringFunc(s, func(code string) string {
		if e, ok := codes[strings.ToLower(code)]; ok {
			return e
		}
		return code
	})
}

var (
	knownOnce sync.Once
	known     map[string]bool
)

// knownEmoji - все символы из таблицы кодов, без учёта селектора вариантов U+FE0F
func knownEmoji() map[string]bool {
	knownOnce.Do(func() {
		codes := emoji.CodeMap()
		known = make(map[string]bool, len(codes))
		for _, e := range codes {
			known[stripVariation(strings.TrimSpace(e))] = true
		}
	})
	return known
}

func stripVariation(s string) string {
	return strings.ReplaceAll(s, "\ufe0f", "")
}

// normalizeEmoji принимает символ эмодзи или его :код:. Прочие строки отклоняются.
func normalizeEmoji(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidEmoji
	}
	if shortcode.FindString(s) == s {
		e, ok := emoji.CodeMap()[strings.ToLower(s)]
		if !ok {
			return "", ErrInvalidEmoji
		}
		return strings.TrimSpace(e), nil
	}
	if !knownEmoji()[stripVariation(s)] {
		return "", ErrInvalidEmoji
	}
	return s, nil
}
