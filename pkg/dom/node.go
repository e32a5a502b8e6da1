package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of attribute key on n, or "".
func Attr(n *html.Node, key string) string {
	v, _ := LookupAttr(n, key)
	return v
}

// LookupAttr returns the value of attribute key and whether it is present.
func LookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, have := range Classes(n) {
		if have == c {
			return true
		}
	}
	return false
}

// AddClass adds classes to n, skipping ones already present.
func AddClass(n *html.Node, classes ...string) {
	list := Classes(n)
	for _, c := range classes {
		if c == "" || HasClass(n, c) {
			continue
		}
		list = append(list, c)
		SetAttr(n, "class", strings.Join(list, " "))
	}
}

// RemoveClass removes classes from n.
func RemoveClass(n *html.Node, classes ...string) {
	drop := make(map[string]bool, len(classes))
	for _, c := range classes {
		drop[c] = true
	}
	var keep []string
	for _, c := range Classes(n) {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	SetAttr(n, "class", strings.Join(keep, " "))
}

// ToggleClass flips class c on n, or forces it when force is non-nil.
// It returns whether the class is present afterwards.
func ToggleClass(n *html.Node, c string, force *bool) bool {
	want := !HasClass(n, c)
	if force != nil {
		want = *force
	}
	if want {
		AddClass(n, c)
	} else {
		RemoveClass(n, c)
	}
	return want
}

// Remove detaches n from its parent. Detached nodes are left untouched.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Append detaches child from any current parent and appends it to parent.
func Append(parent, child *html.Node) {
	Remove(child)
	parent.AppendChild(child)
}

// ReplaceWith substitutes old with n in old's parent. It reports false when
// old has no parent.
func ReplaceWith(old, n *html.Node) bool {
	if old == nil || old.Parent == nil {
		return false
	}
	Remove(n)
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
	return true
}

// ClearChildren detaches every child of n.
func ClearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// TextContent returns the concatenated text of n's subtree.
func TextContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	ClearChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
