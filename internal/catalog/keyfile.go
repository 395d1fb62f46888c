package catalog

import (
	"os"

	"github.com/rkoesters/xdg/keyfile"
)

// iconThemeGroup is the index.theme group holding theme metadata.
const iconThemeGroup = "Icon Theme"

func loadKeyFile(path string) (*keyfile.KeyFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return keyfile.New(f)
}

// parseLocale returns nil for the untranslated C/POSIX locale or a name the
// key-file package cannot parse.
func parseLocale(name string) *keyfile.Locale {
	if name == "" || name == "C" || name == "POSIX" {
		return nil
	}
	l, err := keyfile.ParseLocale(name)
	if err != nil {
		return nil
	}
	return &l
}

// localeString returns key from the Icon Theme group using the most specific
// translation available for locale, then the untranslated value.
func localeString(kf *keyfile.KeyFile, key string, locale *keyfile.Locale) (string, bool) {
	if !kf.KeyExists(iconThemeGroup, key) {
		return "", false
	}

	var (
		v   string
		err error
	)
	if locale != nil {
		v, err = kf.LocaleStringWithLocale(iconThemeGroup, key, *locale)
	} else {
		v, err = kf.String(iconThemeGroup, key)
	}
	return v, err == nil
}

// messagesLocale returns the locale used for translated strings.
func messagesLocale() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}
