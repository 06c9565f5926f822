// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"encoding/gob"
	"encoding/json"
	goio "io"

	"github.com/cpmech/gosl/chk"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoder defines encoders; e.g. gob, json or msgpack
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob, json or msgpack
type Decoder interface {
	Decode(e interface{}) error
}

// Encoders holds the names of available encoders
var Encoders = []string{"gob", "json", "msgpack"}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) (Encoder, error) {
	switch enctype {
	case "gob":
		return gob.NewEncoder(w), nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc, nil
	case "msgpack":
		return msgpack.NewEncoder(w), nil
	}
	return nil, chk.Err("encoder %q is not available. options are %v", enctype, Encoders)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) (Decoder, error) {
	switch enctype {
	case "gob":
		return gob.NewDecoder(r), nil
	case "json":
		return json.NewDecoder(r), nil
	case "msgpack":
		return msgpack.NewDecoder(r), nil
	}
	return nil, chk.Err("decoder %q is not available. options are %v", enctype, Encoders)
}
