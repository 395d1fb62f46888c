package catalog

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Compare orders two display names: DefaultDisplayName sorts before
// everything else, other names use locale collation. A nil collator falls
// back to byte order.
func Compare(collator *collate.Collator, a, b string) int {
	switch {
	case a == DefaultDisplayName && b == DefaultDisplayName:
		return 0
	case a == DefaultDisplayName:
		return -1
	case b == DefaultDisplayName:
		return 1
	}
	if collator == nil {
		return strings.Compare(a, b)
	}
	return collator.CompareString(a, b)
}

// NewCollator returns a collator for the collation locale of the
// environment.
func NewCollator() *collate.Collator {
	return collate.New(CollationTag(), collate.Loose)
}

// CollationTag derives a language tag from LC_ALL, LC_COLLATE or LANG.
func CollationTag() language.Tag {
	for _, env := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return posixTag(v)
		}
	}
	return language.Und
}

func posixTag(locale string) language.Tag {
	locale, _, _ = strings.Cut(locale, "@")
	locale, _, _ = strings.Cut(locale, ".")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

// Sort orders entries by display name with the fallback entry pinned first.
// A nil collator uses the environment's collation locale.
func (c *Catalog) Sort(collator *collate.Collator) {
	if len(c.entries) == 0 {
		return
	}
	if collator == nil {
		collator = NewCollator()
	}

	sort.SliceStable(c.entries, func(i, j int) bool {
		a, b := c.entries[i], c.entries[j]
		if a == c.fallback || b == c.fallback {
			return a == c.fallback && b != c.fallback
		}
		return Compare(collator, a.DisplayName, b.DisplayName) < 0
	})
}
