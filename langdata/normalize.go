package langdata

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Data files Tesseract ships that are not ISO language codes.
var specials = map[string]bool{
	"osd": true, // orientation and script detection
	"equ": true, // math and equations
}

// Normalize canonicalizes a language spec to the codes Tesseract's data files
// use. ISO 639-1 and 639-2 codes become the 3-letter form ("en" and "eng" both
// yield "eng"); multi-language specs keep their "+" structure; variant codes
// ("chi_sim"), script packs ("script/Latin") and Tesseract specials ("osd")
// pass through unchanged. Unrecognized codes are an error.
func Normalize(spec string) (string, error) {
	langs, err := Split(spec)
	if err != nil {
		return "", err
	}
	return strings.Join(langs, "+"), nil
}

// Split breaks a "+"-separated spec into its normalized component codes.
func Split(spec string) ([]string, error) {
	parts := strings.Split(spec, "+")
	langs := make([]string, 0, len(parts))
	for _, part := range parts {
		lang, err := normalizeOne(part)
		if err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

func normalizeOne(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}
	if specials[strings.ToLower(code)] {
		return strings.ToLower(code), nil
	}
	// Variant and script packs are named after data files, not ISO codes.
	if strings.ContainsAny(code, "_/") {
		return code, nil
	}
	base, err := language.ParseBase(strings.ToLower(code))
	if err != nil {
		return "", fmt.Errorf("unrecognized language %q: %w", code, err)
	}
	return base.ISO3(), nil
}
