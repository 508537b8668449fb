package locales

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Languages are the message files loaded next to English, the fallback.
var Languages = []string{"en", "am"}

func GetBundle(baseDir string) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, lang := range Languages {
		name := fmt.Sprintf("active.%s.json", lang)
		if _, err := bundle.LoadMessageFile(filepath.Join(baseDir, "locales", name)); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}

	return bundle, nil
}
