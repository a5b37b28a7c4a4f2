package gtrans

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Positions inside the inner payload. The payload is a reverse-engineered,
// position-indexed tree, so every field is addressed by its path.
const (
	pathShouldSpace         = "1.0.0.3"
	pathParts               = "1.0.0.5"
	pathPronunciation       = "1.0.0.1"
	pathOriginPronunciation = "0.0"
	pathSource              = "2"
	pathSourceFallback      = "0.2"
)

// DecodeEnvelope parses a framed reply and returns the payload it carries as
// a JSON-encoded string at [0][2].
func DecodeEnvelope(framed string) (string, error) {
	if !gjson.Valid(framed) {
		return "", &MalformedJSONError{Stage: StageOuter, Message: "framed reply does not parse"}
	}

	payload := gjson.Get(framed, "0.2")
	if payload.Type != gjson.String {
		return "", &MalformedJSONError{Stage: StageOuter, Message: "no payload string at [0][2]"}
	}

	return payload.Str, nil
}

// DecodePayload unpacks the inner payload of a reply into a Translated result.
// origin, src and dest are the original text and the languages the request
// was sent with. Only an unparsable payload or a missing parts list is an
// error; absent optional fields are left unset.
func DecodePayload(payload, origin, src, dest string) (*Translated, error) {
	if !gjson.Valid(payload) {
		return nil, &MalformedJSONError{Stage: StageInner, Message: "payload does not parse"}
	}
	parsed := gjson.Parse(payload)

	partsNode := parsed.Get(pathParts)
	if !partsNode.IsArray() {
		return nil, &MalformedJSONError{Stage: StageInner, Message: "no translation parts at [1][0][0][5]"}
	}

	parts := decodeParts(partsNode)

	sep := ""
	if parsed.Get(pathShouldSpace).Bool() {
		sep = " "
	}
	texts := make([]string, len(parts))
	for i, part := range parts {
		texts[i] = part.Text
	}

	if src == AutoLang {
		src = resolvedSource(parsed)
	}

	return &Translated{
		Src:           src,
		Dest:          dest,
		Origin:        origin,
		Text:          strings.Join(texts, sep),
		Pronunciation: optionalString(parsed.Get(pathPronunciation)),
		Parts:         parts,
		Extra: ExtraData{
			Parts:               parts,
			OriginPronunciation: optionalString(parsed.Get(pathOriginPronunciation)),
			Parsed:              parsed,
		},
	}, nil
}

// DecodeResponse runs both decode stages on a framed reply.
func DecodeResponse(framed, origin, src, dest string) (*Translated, error) {
	payload, err := DecodeEnvelope(framed)
	if err != nil {
		return nil, err
	}
	return DecodePayload(payload, origin, src, dest)
}

// decodeParts reads [text, candidates?] entries. Non-string candidates are skipped.
func decodeParts(node gjson.Result) []TranslatedPart {
	entries := node.Array()
	parts := make([]TranslatedPart, 0, len(entries))

	for _, entry := range entries {
		part := TranslatedPart{
			Text:       entry.Get("0").String(),
			Candidates: []string{},
		}
		if candidates := entry.Get("1"); candidates.IsArray() {
			for _, c := range candidates.Array() {
				if c.Type == gjson.String {
					part.Candidates = append(part.Candidates, c.Str)
				}
			}
		}
		parts = append(parts, part)
	}

	return parts
}

// resolvedSource returns the detected source language, or AutoLang when the
// payload reports none.
func resolvedSource(parsed gjson.Result) string {
	for _, path := range []string{pathSource, pathSourceFallback} {
		if r := parsed.Get(path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return AutoLang
}

func optionalString(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}
