// Package processor translates structured documents through a
// gtrans.Translator, one request per distinct piece of text.
package processor

import "fmt"

// TextNode is a translatable piece of text extracted from a document.
type TextNode struct {
	ID        string
	Text      string // trimmed text sent for translation
	Hash      string // gtrans.HashText of Text
	ParentTag string
}

// ProcessorError represents a failure to parse or serialize a document.
type ProcessorError struct {
	Message     string
	ContentType string
	Cause       error
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s processor: %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s processor: %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}
