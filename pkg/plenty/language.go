package plenty

import (
	"strings"

	"golang.org/x/text/language"
)

// InvalidLanguage - значение, которое GetLanguage возвращает для неизвестного кода.
const InvalidLanguage = "INVALID_LANGUAGE"

// languages - языки интерфейса Plentymarkets.
// Часть кодов отличается от ISO 639-1 (cz, cn, vn).
var languages = map[string]struct{}{
	"bg": {}, "cn": {}, "cz": {}, "da": {}, "de": {}, "en": {}, "es": {},
	"fr": {}, "it": {}, "nl": {}, "nn": {}, "pl": {}, "pt": {}, "ro": {},
	"ru": {}, "se": {}, "sk": {}, "tr": {}, "vn": {},
}

// isoToPlenty - ISO 639-1 → код Plentymarkets там, где они расходятся.
var isoToPlenty = map[string]string{
	"cs": "cz",
	"zh": "cn",
	"vi": "vn",
	"sv": "se",
}

// GetLanguage проверяет код языка и приводит его к виду Plentymarkets.
//
// Примеры: "EN" → "en", "deu" → "de", "cs" → "cz".
// Для неизвестного кода возвращает (InvalidLanguage, false).
func GetLanguage(lang string) (string, bool) {
	code := strings.ToLower(strings.TrimSpace(lang))
	if _, ok := languages[code]; ok {
		return code, true
	}

	base, err := language.ParseBase(code)
	if err != nil {
		return InvalidLanguage, false
	}
	code = base.String()
	if mapped, ok := isoToPlenty[code]; ok {
		code = mapped
	}
	if _, ok := languages[code]; ok {
		return code, true
	}
	return InvalidLanguage, false
}
