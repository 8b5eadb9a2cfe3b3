// Package i18n provides the small fr/en message catalog used by flash
// messages and templates. French is the default language of the club.
package i18n

import "strings"

var translations = map[string]map[string]string{
	"fr": {
		"forbidden":           "Accès refusé",
		"required":            "Requis",
		"not_found":           "Introuvable",
		"invalid_credentials": "Identifiants invalides",
		"last_admin":          "Impossible de supprimer le dernier administrateur",
		"duplicate_license":   "Numéro de licence déjà utilisé",
		"login_required":      "Connexion requise",
	},
	"en": {
		"forbidden":           "Access denied",
		"required":            "Required",
		"not_found":           "Not found",
		"invalid_credentials": "Invalid credentials",
		"last_admin":          "Cannot delete the last administrator",
		"duplicate_license":   "License number already in use",
		"login_required":      "Login required",
	},
}

// T translates a message code. Unknown languages fall back to French;
// unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if lang != "fr" {
		if s, ok := translations["fr"][code]; ok {
			return s
		}
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language
// header value, defaulting to French.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if strings.HasPrefix(tag, "en") {
			return "en"
		}
		if strings.HasPrefix(tag, "fr") {
			return "fr"
		}
	}
	return "fr"
}
