package internal

import (
	"strings"
)

// List format segments
const (
	listSegmentItem = iota
	listSegmentSeparator
	listSegmentLastSeparator
	listSegmentPairSeparator
)

// ListFormatter renders sequences as item|separator|lastSeparator|pairSeparator.
// Every item is rendered with the element as the current scope and the
// reserved index selector bound to its position.
type ListFormatter struct{}

// NewListFormatter creates a new ListFormatter
func NewListFormatter() *ListFormatter {
	return &ListFormatter{}
}

// Name returns the formatter name
func (f *ListFormatter) Name() string {
	return FormatterNameList
}

// Aliases returns the formatter aliases
func (f *ListFormatter) Aliases() []string {
	return []string{FormatterAliasList}
}

// Accepts sequences when named or when a format is present
func (f *ListFormatter) Accepts(call *FormatCall) bool {
	if !IsSequence(call.Value()) {
		return false
	}
	return call.Explicit() || call.SegmentCount() > 0
}

// Render joins the rendered items
func (f *ListFormatter) Render(call *FormatCall) (string, error) {
	elems := SequenceElements(call.Value())
	if len(elems) == 0 {
		return StringValueEmpty, nil
	}

	separator, err := f.separator(call, listSegmentSeparator)
	if err != nil {
		return StringValueEmpty, err
	}
	last := separator
	if call.SegmentCount() > listSegmentLastSeparator {
		if last, err = f.separator(call, listSegmentLastSeparator); err != nil {
			return StringValueEmpty, err
		}
	}
	if len(elems) == 2 && call.SegmentCount() > listSegmentPairSeparator {
		if last, err = f.separator(call, listSegmentPairSeparator); err != nil {
			return StringValueEmpty, err
		}
	}

	var sb strings.Builder
	for i, elem := range elems {
		switch {
		case i == 0:
		case i == len(elems)-1:
			sb.WriteString(last)
		default:
			sb.WriteString(separator)
		}

		item, err := f.item(call, elem, i)
		if err != nil {
			return StringValueEmpty, err
		}
		sb.WriteString(item)
	}
	return sb.String(), nil
}

// item renders one element; an absent or empty item segment stringifies it
func (f *ListFormatter) item(call *FormatCall, elem any, index int) (string, error) {
	if call.SegmentCount() == 0 {
		return Stringify(elem), nil
	}
	if segment := call.Segment(listSegmentItem); segment.IsEmpty() {
		return Stringify(elem), nil
	}
	return call.RecurseIndexed(listSegmentItem, elem, index)
}

// separator renders a separator segment against the list value
func (f *ListFormatter) separator(call *FormatCall, i int) (string, error) {
	if call.SegmentCount() <= i {
		return StringValueEmpty, nil
	}
	if text, literal := call.SegmentText(i); literal {
		return text, nil
	}
	return call.Recurse(i, call.Value())
}
