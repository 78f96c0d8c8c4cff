// Package charset turns raw document bytes into UTF-8 text before
// tokenization. The encoding is taken from an explicit caller hint, a
// byte order mark, or the encoding pseudo-attribute of the XML
// declaration, in that order, defaulting to UTF-8.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEncoding is wrapped by every decode failure: unknown encoding names
// and byte sequences invalid for the detected encoding.
var ErrEncoding = errors.New("encoding error")

// Result is decoded document text together with the name of the encoding
// that produced it.
type Result struct {
	Text     []byte
	Encoding string
}

// Decoder resolves an encoding label to an encoding. The default uses
// the IANA index; callers can substitute their own to support private
// labels.
type Decoder interface {
	Decoding(label string) (encoding.Encoding, error)
}

type ianaDecoder struct{}

func (ianaDecoder) Decoding(label string) (encoding.Encoding, error) {
	switch label {
	case "utf-16", "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	}
	e, err := ianaindex.IANA.Encoding(label)
	if err != nil || e == nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrEncoding, label)
	}
	return e, nil
}

type decodeOpts struct {
	hint    string
	lossy   bool
	decoder Decoder
}

type Option func(*decodeOpts)

// WithEncoding forces the named encoding, overriding BOM and declaration
// detection.
func WithEncoding(label string) Option {
	return func(o *decodeOpts) { o.hint = label }
}

// Lossy replaces undecodable byte sequences with U+FFFD instead of
// failing.
func Lossy() Option {
	return func(o *decodeOpts) { o.lossy = true }
}

// WithDecoder substitutes the encoding-label resolver.
func WithDecoder(d Decoder) Option {
	return func(o *decodeOpts) { o.decoder = d }
}

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16BE = []byte{0xfe, 0xff}
	bomUTF16LE = []byte{0xff, 0xfe}
)

// Decode converts data to UTF-8.
func Decode(data []byte, opts ...Option) (Result, error) {
	o := &decodeOpts{decoder: ianaDecoder{}}
	for _, opt := range opts {
		opt(o)
	}
	label, body := detect(data, o.hint)
	if label == "utf-8" {
		return decodeUTF8(body, o.lossy)
	}
	enc, err := o.decoder.Decoding(label)
	if err != nil {
		return Result{}, err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: decoding %s: %v", ErrEncoding, label, err)
	}
	if !o.lossy && substituted(enc, body, out) {
		return Result{}, fmt.Errorf("%w: undecodable input for %s", ErrEncoding, label)
	}
	// a BOM decoded from UTF-16 shows up as U+FEFF at the front.
	out = bytes.TrimPrefix(out, []byte("\uFEFF"))
	return Result{Text: out, Encoding: label}, nil
}

// substituted reports whether decoding replaced undecodable input with
// U+FFFD. x/text decoders substitute rather than erroring, so a
// substitution shows as more U+FFFD runes in the output than the input
// itself encodes.
func substituted(enc encoding.Encoding, body, out []byte) bool {
	got := bytes.Count(out, []byte(string(utf8.RuneError)))
	if got == 0 {
		return false
	}
	encoded, _, err := transform.Bytes(enc.NewEncoder(), []byte(string(utf8.RuneError)))
	if err != nil || len(encoded) == 0 {
		// the encoding cannot express U+FFFD, so the input cannot have
		// carried one
		return true
	}
	return got > bytes.Count(body, encoded)
}

// detect picks the encoding label and strips any BOM it matched from
// the body.
func detect(data []byte, hint string) (string, []byte) {
	if hint != "" {
		return hint, bytes.TrimPrefix(data, bomUTF8)
	}
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return "utf-8", data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be", data[len(bomUTF16BE):]
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le", data[len(bomUTF16LE):]
	}
	if label := declEncoding(data); label != "" {
		return label, data
	}
	return "utf-8", data
}

// declEncoding scans the XML declaration at the very start of the
// document for its encoding pseudo-attribute.
func declEncoding(data []byte) string {
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(data, []byte("?>"))
	if end < 0 {
		return ""
	}
	decl := data[:end]
	i := bytes.Index(decl, []byte("encoding"))
	if i < 0 {
		return ""
	}
	rest := bytes.TrimLeft(decl[i+len("encoding"):], " \t\r\n")
	if len(rest) == 0 || rest[0] != '=' {
		return ""
	}
	rest = bytes.TrimLeft(rest[1:], " \t\r\n")
	if len(rest) < 2 || (rest[0] != '"' && rest[0] != '\'') {
		return ""
	}
	quote := rest[0]
	j := bytes.IndexByte(rest[1:], quote)
	if j < 0 {
		return ""
	}
	return string(bytes.ToLower(rest[1 : 1+j]))
}

func decodeUTF8(body []byte, lossy bool) (Result, error) {
	if utf8.Valid(body) {
		return Result{Text: body, Encoding: "utf-8"}, nil
	}
	if !lossy {
		return Result{}, fmt.Errorf("%w: invalid utf-8", ErrEncoding)
	}
	out := make([]byte, 0, len(body))
	for len(body) > 0 {
		r, sz := utf8.DecodeRune(body)
		if r == utf8.RuneError && sz <= 1 {
			out = utf8.AppendRune(out, utf8.RuneError)
			body = body[1:]
			continue
		}
		out = append(out, body[:sz]...)
		body = body[sz:]
	}
	return Result{Text: out, Encoding: "utf-8"}, nil
}
