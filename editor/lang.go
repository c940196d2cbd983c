// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

var languageDefault = language.English

// LanguageFromEnv returns the language of the LC_ALL, LC_NUMERIC or LANG
// environment variable, English if none is set.
func LanguageFromEnv() language.Tag {
	for _, k := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		s := os.Getenv(k)
		if i := strings.IndexAny(s, ".@"); i >= 0 {
			s = s[:i]
		}
		if s == "" || s == "C" || s == "POSIX" {
			continue
		}
		if tag, err := language.Parse(strings.ReplaceAll(s, "_", "-")); err == nil {
			return tag
		}
	}
	return languageDefault
}
