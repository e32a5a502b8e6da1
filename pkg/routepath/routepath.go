// Package routepath cleans navigation paths that arrive from outside the
// document, such as bridge commands and CLI arguments, before they reach
// the router.
package routepath

import (
	"errors"
	"strings"
)

// Path errors.
var (
	ErrNotRelative          = errors.New("path must start with / and name no host")
	ErrBackslash            = errors.New("path contains backslash")
	ErrNullByte             = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrEscapesRoot          = errors.New("path escapes root via ..")
)

// Result is a cleaned path.
type Result struct {
	// Path is the cleaned path without the query.
	Path string

	// Query is the query string without the leading "?".
	Query string

	// Changed reports whether cleaning modified the path.
	Changed bool
}

// String returns the path with its query, if any.
func (r Result) String() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// Canonicalize collapses repeated slashes, resolves "." and ".." segments
// and drops the trailing slash, so "/users//42/" becomes "/users/42". The
// query string is kept as is. Backslashes, NUL bytes, malformed percent
// escapes and ".." above the root are rejected.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}
	path, query, _ := strings.Cut(input, "?")

	if strings.Contains(path, `\`) {
		return Result{}, ErrBackslash
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByte
	}
	if strings.Contains(path, "%") {
		if err := validateEscapes(path); err != nil {
			return Result{}, err
		}
	}

	var segs []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				return Result{}, ErrEscapesRoot
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}
	clean := "/" + strings.Join(segs, "/")

	return Result{Path: clean, Query: query, Changed: clean != path}, nil
}

// Clean canonicalizes a navigation target and returns it with its query.
// Only same-document paths are accepted: absolute and protocol-relative
// URLs are rejected.
func Clean(target string) (string, error) {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "", ErrNotRelative
	}
	r, err := Canonicalize(target)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

func validateEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
