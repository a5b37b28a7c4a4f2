// Package gtrans is a client for the browser-facing translation batch-RPC
// endpoint (batchexecute) used by the translate web frontend.
//
// The endpoint is undocumented: requests are a JSON document embedded as a
// string inside another JSON document, and replies are a text stream in which
// the JSON-bearing region has to be located by bracket balance before its
// double-encoded payload can be unpacked.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/ZaguanLabs/gtrans"
//	    "github.com/ZaguanLabs/gtrans/cache"
//	)
//
//	func main() {
//	    c := gtrans.NewClient(
//	        gtrans.WithCache(cache.NewInMemoryCache(time.Hour)),
//	    )
//	    defer c.Close()
//
//	    result, err := c.Translate(context.Background(), "Bonjour le monde", gtrans.AutoLang, "en")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Src, result.Text) // fr Hello world
//	}
package gtrans
