//go:build !integration

package i18n

import (
	"sort"
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: hello\nprice_line: \"%s costs %s\"\n"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "hello" {
			t.Errorf("wanted 'hello', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted 'nonexistent_key', got '%s'", got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got := translator.T("price_line", "BTC", "100"); got != "BTC costs 100" {
			t.Errorf("wanted 'BTC costs 100', got '%s'", got)
		}
	})
}

func TestNewTranslatorFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("welcome_message: hi")},
	}

	tr, err := NewTranslator(fsys, "en")
	if err != nil {
		t.Fatalf("NewTranslator failed: %v", err)
	}
	if tr.T("welcome_message") != "hi" || tr.Lang() != "en" {
		t.Errorf("unexpected translator state: %q %q", tr.T("welcome_message"), tr.Lang())
	}

	if _, err := NewTranslator(fsys, "de"); err == nil {
		t.Error("expected error for a missing locale")
	}
}

func TestEmbeddedLocalesShareKeys(t *testing.T) {
	en, err := NewTranslator(LocalesFS, "en")
	if err != nil {
		t.Fatalf("load en: %v", err)
	}
	ru, err := NewTranslator(LocalesFS, "ru")
	if err != nil {
		t.Fatalf("load ru: %v", err)
	}

	enKeys, ruKeys := en.Keys(), ru.Keys()
	sort.Strings(enKeys)
	sort.Strings(ruKeys)
	if len(enKeys) != len(ruKeys) {
		t.Fatalf("locale key count differs: en=%d ru=%d", len(enKeys), len(ruKeys))
	}
	for _, k := range enKeys {
		if !ru.Has(k) {
			t.Errorf("ru locale is missing key %q", k)
		}
	}
}
