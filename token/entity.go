package token

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// The five predefined entities. Documents need not declare amp, lt, gt,
// apos or quot; everything else is an error here (DTD-declared entities
// are out of scope).
var predefined = map[string]rune{
	"amp":  '&',
	"lt":   '<',
	"gt":   '>',
	"apos": '\'',
	"quot": '"',
}

// expandRefs expands entity and character references in src. base is the
// offset of src[0] within pd, for error positions. When src contains no
// reference it is returned as-is without copying. In permissive mode
// unknown or malformed references pass through literally.
func expandRefs(src []byte, base int, pd *PosDoc, permissive bool) ([]byte, error) {
	amp := bytes.IndexByte(src, '&')
	if amp < 0 {
		return src, nil
	}
	out := make([]byte, 0, len(src))
	out = append(out, src[:amp]...)
	i := amp
	for i < len(src) {
		c := src[i]
		if c != '&' {
			out = append(out, c)
			i++
			continue
		}
		end := refEnd(src, i+1)
		if end < 0 {
			if permissive {
				out = append(out, '&')
				i++
				continue
			}
			return nil, NewTokenizeErr(fmt.Errorf("%w: reference missing ';'", ErrParse), pd.Pos(base+i))
		}
		name := src[i+1 : end]
		if len(name) > 0 && name[0] == '#' {
			r, err := charRef(name[1:])
			if err != nil {
				if permissive {
					out = append(out, src[i:end+1]...)
					i = end + 1
					continue
				}
				return nil, NewTokenizeErr(fmt.Errorf("%w: %w", ErrParse, err), pd.Pos(base+i))
			}
			out = utf8.AppendRune(out, r)
			i = end + 1
			continue
		}
		r, ok := predefined[string(name)]
		if !ok {
			if permissive {
				out = append(out, src[i:end+1]...)
				i = end + 1
				continue
			}
			return nil, NewTokenizeErr(fmt.Errorf("%w: &%s;", ErrUndefinedEntity, name), pd.Pos(base+i))
		}
		out = utf8.AppendRune(out, r)
		i = end + 1
	}
	return out, nil
}

// refEnd returns the index of the terminating ';' for a reference starting
// just after '&', or -1 when no well-formed terminator follows.
func refEnd(src []byte, from int) int {
	for j := from; j < len(src) && j-from < 32; j++ {
		switch src[j] {
		case ';':
			if j == from {
				return -1
			}
			return j
		case '&', '<', '>', ' ', '\t', '\n', '\r':
			return -1
		}
	}
	return -1
}

func charRef(d []byte) (rune, error) {
	var v int64
	var err error
	if len(d) > 0 && (d[0] == 'x' || d[0] == 'X') {
		v, err = strconv.ParseInt(string(d[1:]), 16, 32)
	} else {
		v, err = strconv.ParseInt(string(d), 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid character reference &#%s;", d)
	}
	r := rune(v)
	if !utf8.ValidRune(r) || r == 0 {
		return 0, fmt.Errorf("character reference &#%s; out of range", d)
	}
	return r, nil
}
