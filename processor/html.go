package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/gtrans"
	"golang.org/x/net/html"
)

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// NoTranslateAttr marks an element whose subtree is left untouched.
const NoTranslateAttr = "data-no-translate"

// HTMLProcessor translates the text nodes of an HTML document.
type HTMLProcessor struct {
	translator  gtrans.Translator
	ignoredTags map[string]bool
	concurrency int
}

// HTMLOption configures an HTMLProcessor.
type HTMLOption func(*HTMLProcessor)

// WithIgnoredTags replaces the default set of ignored tags.
func WithIgnoredTags(tags []string) HTMLOption {
	return func(p *HTMLProcessor) {
		ignored := make(map[string]bool, len(tags))
		for _, tag := range tags {
			ignored[strings.ToLower(tag)] = true
		}
		p.ignoredTags = ignored
	}
}

// WithConcurrency sets how many text nodes are translated at once.
func WithConcurrency(n int) HTMLOption {
	return func(p *HTMLProcessor) {
		p.concurrency = n
	}
}

// NewHTMLProcessor creates a new HTML processor backed by t.
func NewHTMLProcessor(t gtrans.Translator, opts ...HTMLOption) *HTMLProcessor {
	p := &HTMLProcessor{
		translator:  t,
		ignoredTags: IgnoredTags,
		concurrency: gtrans.DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Document is a parsed HTML document with its translatable nodes indexed by
// text hash.
type Document struct {
	doc    *goquery.Document
	byHash map[string][]*html.Node
}

// HTMLResult is the outcome of translating a document.
type HTMLResult struct {
	HTML  string
	Src   string // detected source when translating from auto, else the given source
	Dest  string
	Nodes int // distinct texts translated
}

// Extract parses content and returns its distinct translatable texts in
// document order.
func (p *HTMLProcessor) Extract(content string) (*Document, []TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	parsed := &Document{doc: doc, byHash: make(map[string][]*html.Node)}
	var nodes []TextNode

	p.walk(doc, func(n *html.Node, trimmed string) {
		hash := gtrans.HashText(trimmed)
		if _, seen := parsed.byHash[hash]; !seen {
			node := TextNode{
				ID:   fmt.Sprintf("node-%d", len(nodes)),
				Text: trimmed,
				Hash: hash,
			}
			if n.Parent != nil {
				node.ParentTag = n.Parent.Data
			}
			nodes = append(nodes, node)
		}
		parsed.byHash[hash] = append(parsed.byHash[hash], n)
	})

	return parsed, nodes, nil
}

// Apply writes translations (keyed by text hash) back into the document and
// marks the root element with dest's lang and dir.
func (p *HTMLProcessor) Apply(parsed *Document, translations map[string]string, dest string) (string, error) {
	if parsed == nil {
		return "", &ProcessorError{
			Message:     "no parsed document",
			ContentType: "html",
		}
	}

	for hash, translated := range translations {
		for _, n := range parsed.byHash[hash] {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	}

	if dest != "" {
		root := parsed.doc.Find("html")
		root.SetAttr("lang", dest)
		root.SetAttr("dir", gtrans.GetDirection(dest))
	}

	out, err := parsed.doc.Html()
	if err != nil {
		return "", &ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	return out, nil
}

// Translate extracts the document's texts, translates them with
// gtrans.TranslateBatch and writes the results back.
func (p *HTMLProcessor) Translate(ctx context.Context, content, src, dest string) (*HTMLResult, error) {
	if dest == "" {
		dest = gtrans.DefaultDestLang
	}
	dest, err := gtrans.ResolveLanguage(dest, gtrans.RoleDestination, false)
	if err != nil {
		return nil, err
	}

	parsed, nodes, err := p.Extract(content)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(nodes))
	for i, node := range nodes {
		texts[i] = node.Text
	}

	results, err := gtrans.TranslateBatch(ctx, p.translator, texts, src, dest, p.concurrency)
	if err != nil {
		return nil, err
	}

	translations := make(map[string]string, len(nodes))
	detected := src
	if detected == "" {
		detected = gtrans.AutoLang
	}
	for i, node := range nodes {
		translations[node.Hash] = results[i].Text
		if detected == gtrans.AutoLang && results[i].SourceKnown() {
			detected = results[i].Src
		}
	}

	out, err := p.Apply(parsed, translations, dest)
	if err != nil {
		return nil, err
	}

	return &HTMLResult{
		HTML:  out,
		Src:   detected,
		Dest:  dest,
		Nodes: len(nodes),
	}, nil
}

// walk calls fn for every non-blank text node outside ignored subtrees.
func (p *HTMLProcessor) walk(doc *goquery.Document, fn func(n *html.Node, trimmed string)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if p.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == NoTranslateAttr {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				fn(n, trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	for _, n := range doc.Nodes {
		visit(n)
	}
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}
