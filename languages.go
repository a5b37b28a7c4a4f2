package gtrans

import "strings"

// AutoLang asks the endpoint to detect the source language.
const AutoLang = "auto"

// Languages maps the language codes accepted by the endpoint to their names.
var Languages = map[string]string{
	"af":    "afrikaans",
	"sq":    "albanian",
	"am":    "amharic",
	"ar":    "arabic",
	"hy":    "armenian",
	"az":    "azerbaijani",
	"eu":    "basque",
	"be":    "belarusian",
	"bn":    "bengali",
	"bs":    "bosnian",
	"bg":    "bulgarian",
	"ca":    "catalan",
	"ceb":   "cebuano",
	"ny":    "chichewa",
	"zh-cn": "chinese (simplified)",
	"zh-tw": "chinese (traditional)",
	"co":    "corsican",
	"hr":    "croatian",
	"cs":    "czech",
	"da":    "danish",
	"nl":    "dutch",
	"en":    "english",
	"eo":    "esperanto",
	"et":    "estonian",
	"tl":    "filipino",
	"fi":    "finnish",
	"fr":    "french",
	"fy":    "frisian",
	"gl":    "galician",
	"ka":    "georgian",
	"de":    "german",
	"el":    "greek",
	"gu":    "gujarati",
	"ht":    "haitian creole",
	"ha":    "hausa",
	"haw":   "hawaiian",
	"iw":    "hebrew",
	"he":    "hebrew",
	"hi":    "hindi",
	"hmn":   "hmong",
	"hu":    "hungarian",
	"is":    "icelandic",
	"ig":    "igbo",
	"id":    "indonesian",
	"ga":    "irish",
	"it":    "italian",
	"ja":    "japanese",
	"jw":    "javanese",
	"kn":    "kannada",
	"kk":    "kazakh",
	"km":    "khmer",
	"ko":    "korean",
	"ku":    "kurdish (kurmanji)",
	"ky":    "kyrgyz",
	"lo":    "lao",
	"la":    "latin",
	"lv":    "latvian",
	"lt":    "lithuanian",
	"lb":    "luxembourgish",
	"mk":    "macedonian",
	"mg":    "malagasy",
	"ms":    "malay",
	"ml":    "malayalam",
	"mt":    "maltese",
	"mi":    "maori",
	"mr":    "marathi",
	"mn":    "mongolian",
	"my":    "myanmar (burmese)",
	"ne":    "nepali",
	"no":    "norwegian",
	"or":    "odia",
	"ps":    "pashto",
	"fa":    "persian",
	"pl":    "polish",
	"pt":    "portuguese",
	"pa":    "punjabi",
	"ro":    "romanian",
	"ru":    "russian",
	"sm":    "samoan",
	"gd":    "scots gaelic",
	"sr":    "serbian",
	"st":    "sesotho",
	"sn":    "shona",
	"sd":    "sindhi",
	"si":    "sinhala",
	"sk":    "slovak",
	"sl":    "slovenian",
	"so":    "somali",
	"es":    "spanish",
	"su":    "sundanese",
	"sw":    "swahili",
	"sv":    "swedish",
	"tg":    "tajik",
	"ta":    "tamil",
	"te":    "telugu",
	"th":    "thai",
	"tr":    "turkish",
	"uk":    "ukrainian",
	"ur":    "urdu",
	"ug":    "uyghur",
	"uz":    "uzbek",
	"vi":    "vietnamese",
	"cy":    "welsh",
	"xh":    "xhosa",
	"yi":    "yiddish",
	"yo":    "yoruba",
	"zu":    "zulu",
}

// SpecialCases maps aliases the endpoint does not accept to accepted codes.
var SpecialCases = map[string]string{
	"ee": "et",
}

// LangCodes maps language names to codes. Where two codes share a name
// (hebrew), the current code wins.
var LangCodes = func() map[string]string {
	codes := make(map[string]string, len(Languages))
	for code, name := range Languages {
		codes[name] = code
	}
	codes["hebrew"] = "he"
	return codes
}()

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"iw": true, // Hebrew (legacy code)
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
	"yi": true, // Yiddish
}

// normalizeTag lower-cases a tag and drops any region suffix ("zh_CN" -> "zh").
func normalizeTag(tag string) string {
	base, _, _ := strings.Cut(strings.ToLower(tag), "_")
	return base
}

// ResolveLanguage turns a user supplied tag into a code the endpoint accepts.
// Codes, aliases from SpecialCases and language names from LangCodes are
// recognized. AutoLang is passed through only when allowAuto is set.
func ResolveLanguage(tag string, role LangRole, allowAuto bool) (string, error) {
	lang := normalizeTag(tag)

	if allowAuto && lang == AutoLang {
		return AutoLang, nil
	}
	if _, ok := Languages[lang]; ok {
		return lang, nil
	}
	if code, ok := SpecialCases[lang]; ok {
		return code, nil
	}
	if code, ok := LangCodes[lang]; ok {
		return code, nil
	}

	return "", &InvalidLanguageError{Lang: lang, Role: role}
}

// GetLanguageName returns the name of a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := Languages[langCode]; ok {
		return name
	}
	if code, ok := SpecialCases[langCode]; ok {
		return Languages[code]
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	base, _, _ := strings.Cut(normalizeTag(langCode), "-")
	if RTLLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}
