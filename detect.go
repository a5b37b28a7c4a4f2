package gtrans

import "context"

// DefaultDetectDest is the destination of the translation a detection runs.
const DefaultDetectDest = "en"

// Detect detects the language of text by translating it from AutoLang to
// DefaultDetectDest and reading back the source language the endpoint
// resolved. Errors from the translation are returned unchanged.
func Detect(ctx context.Context, t Translator, text string) (*Detected, error) {
	result, err := t.Translate(ctx, text, AutoLang, DefaultDetectDest)
	if err != nil {
		return nil, err
	}

	return &Detected{
		Lang:     result.Src,
		Response: result.Response,
	}, nil
}
