package gtrans

import (
	"net/http"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

// TranslatedPart is one segment of a translation as returned by the endpoint.
type TranslatedPart struct {
	Text       string   `json:"text"`       // Translated segment
	Candidates []string `json:"candidates"` // Alternative renderings, may be empty
}

// Response is the raw HTTP reply a result was decoded from.
// It is nil for results served from a cache.
type Response struct {
	StatusCode int
	URL        string
	Header     http.Header
	Body       string
}

// ExtraData holds auxiliary fields of a translation.
type ExtraData struct {
	Parts               []TranslatedPart
	OriginPronunciation *string      // Pronunciation of the original text, if returned
	Parsed              gjson.Result // Inner payload tree, for callers that need more fields
}

// Confidence is reserved for a future endpoint revision. The current protocol
// never reports one, so ok is always false.
func (e ExtraData) Confidence() (value float64, ok bool) {
	return 0, false
}

// Translated is the result of a translation.
type Translated struct {
	Src           string  // Source language; AutoLang when the endpoint did not report one
	Dest          string  // Destination language
	Origin        string  // Original text
	Text          string  // Translated text
	Pronunciation *string // Pronunciation of the translated text, if returned
	Parts         []TranslatedPart
	Extra         ExtraData
	Response      *Response
}

// SourceKnown reports whether the source language is a real language code.
// It is false when auto detection was requested and the endpoint returned no
// source language.
func (t *Translated) SourceKnown() bool {
	return t.Src != AutoLang
}

// Detected is the result of a language detection.
type Detected struct {
	Lang     string // Detected language code, AutoLang when unknown
	Response *Response
}

// Confidence always reports ok == false: the endpoint does not return a
// detection confidence.
func (d *Detected) Confidence() (value float64, ok bool) {
	return 0, false
}

// Known reports whether a language was detected.
func (d *Detected) Known() bool {
	return d.Lang != "" && d.Lang != AutoLang
}

// Tag parses the detected language as a BCP 47 tag.
func (d *Detected) Tag() (language.Tag, error) {
	return language.Parse(d.Lang)
}
