// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package docindex reads, checks and writes documentation search indices
//  The index is a JSON object {"docs": [records...]}, optionally wrapped in a JavaScript
//  assignment such as "var documenterSearchIndex = {...}" (Documenter.jl output)
package docindex

import (
	"bytes"
	"encoding/json"
	goio "io"
	"os"
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Categories holds the allowed record categories
var Categories = []string{"page", "section", "method", "function", "type", "module", "constant", "macro"}

// Record holds one entry of the search index
//  Note: the order of fields defines the order of keys when encoding
type Record struct {
	Location string `json:"location"` // page anchor or path. e.g. "#GittinsIndices"
	Page     string `json:"page"`     // display name of page
	Title    string `json:"title"`    // title of entry
	Text     string `json:"text"`     // docstring or page text
	Category string `json:"category"` // e.g. "page", "section", "method"
}

// Index holds the search index
type Index struct {
	Prefix string    // text before the JSON object; e.g. "var documenterSearchIndex = "
	Docs   []*Record // all records, in order
}

// rawRecord is used to detect missing fields
type rawRecord struct {
	Location *string `json:"location"`
	Page     *string `json:"page"`
	Title    *string `json:"title"`
	Text     *string `json:"text"`
	Category *string `json:"category"`
}

// ReadFile reads index file
func ReadFile(fnpath string) (o *Index, err error) {
	b, err := os.ReadFile(fnpath)
	if err != nil {
		return nil, chk.Err("cannot read search index file %q:\n%v", fnpath, err)
	}
	return Parse(b)
}

// Parse parses an index given as JSON or as a JavaScript assignment
func Parse(b []byte) (o *Index, err error) {

	// prefix
	start := bytes.IndexByte(b, '{')
	if start < 0 {
		return nil, chk.Err("search index must contain a JSON object")
	}
	prefix := string(b[:start])
	if p := strings.TrimSpace(prefix); p != "" && !strings.HasSuffix(p, "=") {
		return nil, chk.Err("search index prefix %q is not a variable assignment", prefix)
	}

	// top-level object
	dec := json.NewDecoder(bytes.NewReader(b[start:]))
	var top map[string]json.RawMessage
	if err = dec.Decode(&top); err != nil {
		return nil, chk.Err("cannot decode search index:\n%v", err)
	}
	rest := strings.TrimSpace(string(b[start+int(dec.InputOffset()):]))
	if rest != "" && rest != ";" {
		return nil, chk.Err("search index has trailing data: %q", rest)
	}
	raw, ok := top["docs"]
	if !ok {
		return nil, chk.Err("search index must have a \"docs\" key")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, chk.Err("\"docs\" must be an array")
	}

	// records
	var recs []*rawRecord
	rdec := json.NewDecoder(bytes.NewReader(raw))
	rdec.DisallowUnknownFields()
	if err = rdec.Decode(&recs); err != nil {
		return nil, chk.Err("cannot decode records:\n%v", err)
	}
	o = &Index{Prefix: prefix, Docs: make([]*Record, len(recs))}
	for i, r := range recs {
		if r == nil {
			return nil, chk.Err("record %d is null", i)
		}
		missing := make([]string, 0)
		for _, f := range []struct {
			key string
			val *string
		}{
			{"location", r.Location}, {"page", r.Page}, {"title", r.Title}, {"text", r.Text}, {"category", r.Category},
		} {
			if f.val == nil {
				missing = append(missing, f.key)
			}
		}
		if len(missing) > 0 {
			return nil, chk.Err("record %d is missing fields %v", i, missing)
		}
		o.Docs[i] = &Record{*r.Location, *r.Page, *r.Title, *r.Text, *r.Category}
	}
	return
}

// Validate checks that all categories are known
func (o *Index) Validate() error {
	for i, r := range o.Docs {
		if !IsCategory(r.Category) {
			return chk.Err("record %d (%q): category %q is not one of %v", i, r.Title, r.Category, Categories)
		}
	}
	return nil
}

// IsCategory tells whether cat is an allowed category
func IsCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Count returns the number of records per category
func (o *Index) Count() map[string]int {
	res := make(map[string]int)
	for _, r := range o.Docs {
		res[r.Category]++
	}
	return res
}

// CountString returns a formatted summary of Count; e.g. "method:3 page:4 section:1"
func (o *Index) CountString() string {
	cnt := o.Count()
	keys := make([]string, 0, len(cnt))
	for k := range cnt {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = io.Sf("%s:%d", k, cnt[k])
	}
	return strings.Join(items, " ")
}

// Encode writes the index using the same layout as Documenter.jl
//
//   <prefix>{"docs":
//   [{...},{...}]
//   }
//
//  Note: HTML characters are not escaped
func (o *Index) Encode(w goio.Writer) (err error) {
	var buf bytes.Buffer
	buf.WriteString(o.Prefix)
	buf.WriteString("{\"docs\":\n[")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, r := range o.Docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err = enc.Encode(r); err != nil {
			return chk.Err("cannot encode record %d:\n%v", i, err)
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
	}
	buf.WriteString("]\n}\n")
	_, err = w.Write(buf.Bytes())
	return
}

// Bytes returns the encoded index
func (o *Index) Bytes() []byte {
	var buf bytes.Buffer
	if err := o.Encode(&buf); err != nil {
		chk.Panic("%v", err)
	}
	return buf.Bytes()
}
