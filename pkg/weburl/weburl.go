// Package weburl builds site-relative links with query parameters and an anchor.
package weburl

import (
	"net/url"
	"strings"
)

// Param is a single query parameter. Order of insertion is kept when rendering.
type Param struct {
	Name  string
	Value string
}

// URL is a site-relative link: a path, its query parameters and an optional anchor.
type URL struct {
	path   string
	params []Param
	anchor string
}

// New creates a URL for path with the given parameters.
func New(path string, params ...Param) *URL {
	u := &URL{path: "/" + strings.TrimLeft(path, "/")}
	for _, p := range params {
		u.SetParam(p.Name, p.Value)
	}
	return u
}

// Path returns the site-relative path.
func (u *URL) Path() string {
	return u.path
}

// SetParam sets or replaces a query parameter.
func (u *URL) SetParam(name, value string) *URL {
	for i := range u.params {
		if u.params[i].Name == name {
			u.params[i].Value = value
			return u
		}
	}
	u.params = append(u.params, Param{Name: name, Value: value})
	return u
}

// Param returns the value of the named parameter and whether it is present.
func (u *URL) Param(name string) (string, bool) {
	for _, p := range u.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Params returns a copy of the query parameters.
func (u *URL) Params() []Param {
	out := make([]Param, len(u.params))
	copy(out, u.params)
	return out
}

// SetAnchor sets the fragment rendered after '#'.
func (u *URL) SetAnchor(anchor string) *URL {
	u.anchor = anchor
	return u
}

// Anchor returns the fragment, without the leading '#'.
func (u *URL) Anchor() string {
	return u.anchor
}

// Out renders the URL. An empty wwwroot yields a site-relative link.
func (u *URL) Out(wwwroot string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(wwwroot, "/"))
	b.WriteString(u.path)
	if len(u.params) > 0 {
		b.WriteByte('?')
		for i, p := range u.params {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(p.Name))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(p.Value))
		}
	}
	if u.anchor != "" {
		b.WriteByte('#')
		b.WriteString(url.PathEscape(u.anchor))
	}
	return b.String()
}

// String renders the site-relative form.
func (u *URL) String() string {
	return u.Out("")
}

// Parse reads a URL previously rendered by Out back into its parts.
func Parse(raw string) (*URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	u := New(parsed.Path)
	if parsed.RawQuery != "" {
		for _, pair := range strings.Split(parsed.RawQuery, "&") {
			name, value, _ := strings.Cut(pair, "=")
			n, err := url.QueryUnescape(name)
			if err != nil {
				return nil, err
			}
			v, err := url.QueryUnescape(value)
			if err != nil {
				return nil, err
			}
			u.SetParam(n, v)
		}
	}
	u.anchor = parsed.Fragment
	return u, nil
}
