package gtrans

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// RPCID identifies the translate method on the batchexecute endpoint.
// It is part of the endpoint contract: the request payload, the rpcids query
// parameter and the reply marker all carry it, and any other value breaks
// the exchange.
const RPCID = "MkEWBc"

// rpcPath is the batchexecute endpoint path on every service host.
const rpcPath = "/_/TranslateWebserverUi/data/batchexecute"

// frontendBuild is the web frontend build label sent as the bl parameter.
const frontendBuild = "boq_translate-webserver_20201207.13_p0"

// RPCURL returns the batchexecute URL for a service host. A host that already
// carries a scheme ("http://127.0.0.1:8080") is used as the base as is.
func RPCURL(host string) string {
	if strings.Contains(host, "://") {
		return strings.TrimRight(host, "/") + rpcPath
	}
	return "https://" + host + rpcPath
}

// RequestParams returns the fixed query parameters of a translate call.
func RequestParams() url.Values {
	return url.Values{
		"rpcids":       {RPCID},
		"bl":           {frontendBuild},
		"soc-app":      {"1"},
		"soc-platform": {"1"},
		"soc-device":   {"1"},
		"rt":           {"c"},
	}
}

// EncodeRequest builds the f.req form value for translating text from src to
// dest. The inner request [[text,src,dest,true],[null]] is serialized to a JSON
// string and embedded in the outer envelope [[[RPCID,inner,null,"generic"]]].
// Both levels are compact and the output is deterministic for a given input.
func EncodeRequest(text, src, dest string) (string, error) {
	inner, err := compactJSON([]any{[]any{text, src, dest, true}, []any{nil}})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	outer, err := compactJSON([]any{[]any{[]any{RPCID, inner, nil, "generic"}}})
	if err != nil {
		return "", fmt.Errorf("encoding envelope: %w", err)
	}

	return outer, nil
}

// RequestForm returns the form body of a translate call.
func RequestForm(text, src, dest string) (url.Values, error) {
	freq, err := EncodeRequest(text, src, dest)
	if err != nil {
		return nil, err
	}
	return url.Values{"f.req": {freq}}, nil
}

// compactJSON marshals v without HTML escaping and without the trailing
// newline json.Encoder appends.
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
