package layouttess

import "strings"

var tesseractLangs = map[string]string{
	"en": "eng",
	"es": "spa",
	"fr": "fra",
	"de": "deu",
	"it": "ita",
	"pt": "por",
	"ch": "chi_sim",
}

// tesseractLang maps a short language code onto Tesseract's traineddata name.
// Names Tesseract already understands, such as "eng+spa", pass through.
func tesseractLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "eng"
	}
	if name, ok := tesseractLangs[lang]; ok {
		return name
	}
	return lang
}
