package internal

import (
	"fmt"
	"strings"
)

// Node is the interface all compiled template nodes implement
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// TemplateNode is an ordered sequence of text and placeholder nodes.
// Nodes are never mutated after the parser returns them.
type TemplateNode struct {
	pos      Position
	Children []Node
	Source   string // raw text this template was parsed from
}

// NewTemplateNode creates a template node
func NewTemplateNode(children []Node, source string, pos Position) *TemplateNode {
	return &TemplateNode{pos: pos, Children: children, Source: source}
}

// Type returns NodeTypeTemplate
func (n *TemplateNode) Type() NodeType {
	return NodeTypeTemplate
}

// Pos returns the source position
func (n *TemplateNode) Pos() Position {
	return n.pos
}

// String returns a string representation of the template node
func (n *TemplateNode) String() string {
	var sb strings.Builder
	sb.WriteString("TemplateNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// IsEmpty reports whether the template has no content
func (n *TemplateNode) IsEmpty() bool {
	return len(n.Children) == 0
}

// LiteralText returns the text of a template without placeholders
func (n *TemplateNode) LiteralText() (string, bool) {
	var sb strings.Builder
	for _, child := range n.Children {
		text, ok := child.(*TextNode)
		if !ok {
			return StringValueEmpty, false
		}
		sb.WriteString(text.Content)
	}
	return sb.String(), true
}

// LeadingText returns the content of the first child if it is text
func (n *TemplateNode) LeadingText() string {
	if len(n.Children) == 0 {
		return StringValueEmpty
	}
	if text, ok := n.Children[0].(*TextNode); ok {
		return text.Content
	}
	return StringValueEmpty
}

// TrimLeadingText returns a copy of the template with the first size bytes
// of its leading text removed. The receiver is left untouched.
func (n *TemplateNode) TrimLeadingText(size int) *TemplateNode {
	lead := n.LeadingText()
	if size <= 0 || lead == StringValueEmpty {
		return n
	}
	if size > len(lead) {
		size = len(lead)
	}
	first := n.Children[0].(*TextNode)
	children := make([]Node, 0, len(n.Children))
	if rest := lead[size:]; rest != StringValueEmpty {
		children = append(children, NewTextNode(rest, first.pos))
	}
	children = append(children, n.Children[1:]...)
	return NewTemplateNode(children, n.Source, n.pos)
}

// Placeholders returns the direct placeholder children
func (n *TemplateNode) Placeholders() []*PlaceholderNode {
	var result []*PlaceholderNode
	for _, child := range n.Children {
		if ph, ok := child.(*PlaceholderNode); ok {
			result = append(result, ph)
		}
	}
	return result
}

// TextNode represents literal text content
type TextNode struct {
	pos     Position
	Content string
}

// NewTextNode creates a new text node
func NewTextNode(content string, pos Position) *TextNode {
	return &TextNode{pos: pos, Content: content}
}

// Type returns NodeTypeText
func (n *TextNode) Type() NodeType {
	return NodeTypeText
}

// Pos returns the source position
func (n *TextNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *TextNode) String() string {
	content := n.Content
	if len(content) > MaxStringDisplayLength {
		content = content[:TruncatedStringLength] + TruncationSuffix
	}
	return fmt.Sprintf("TextNode{%q @ %s}", content, n.pos)
}

// PlaceholderNode is a delimited region replaced at render time
type PlaceholderNode struct {
	pos              Position
	Selector         []string        // selector path tokens; empty means current value
	SelectorText     string          // selector as written
	Alignment        int             // signed width, 0 when absent
	HasAlignment     bool            // alignment was given
	FormatterName    string          // explicit formatter name, empty for auto-detect
	FormatterOptions string          // text inside name(...)
	HasFormat        bool            // a format part followed the formatter delimiter
	Segments         []*TemplateNode // format split on the segment delimiter
	RawText          string          // placeholder text as written in the raw source
}

// Type returns NodeTypePlaceholder
func (n *PlaceholderNode) Type() NodeType {
	return NodeTypePlaceholder
}

// Pos returns the source position
func (n *PlaceholderNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *PlaceholderNode) String() string {
	return fmt.Sprintf("PlaceholderNode{selector=%q, align=%d, formatter=%q, segments=%d @ %s}",
		n.SelectorText, n.Alignment, n.FormatterName, len(n.Segments), n.pos)
}

// IsExplicit reports whether the placeholder names a formatter
func (n *PlaceholderNode) IsExplicit() bool {
	return n.FormatterName != StringValueEmpty
}
