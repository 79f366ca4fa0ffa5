package internal

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// complexConditionPattern matches a leading condition chain such as ">=18&<65?"
var complexConditionPattern = regexp.MustCompile(`^(?:[&/]?[<>=!]=?-?[0-9]+(?:\.[0-9]+)?)+\?`)

// conditionTermPattern matches one term of a condition chain
var conditionTermPattern = regexp.MustCompile(`([&/]?)([<>=!]=?)(-?[0-9]+(?:\.[0-9]+)?)`)

// Comparison operators in condition chains
const (
	condCmpLess         = "<"
	condCmpLessEqual    = "<="
	condCmpGreater      = ">"
	condCmpGreaterEqual = ">="
	condCmpEqual        = "="
	condCmpEqualEqual   = "=="
	condCmpNot          = "!"
	condCmpNotEqual     = "!="
)

// ConditionalFormatter picks a segment by inspecting the value:
//
//	bool          true|false
//	number        segment at floor(value), negative picks the last
//	string        non-empty|empty
//	nil           value|nil
//	sequence      non-empty|empty
//	time.Duration negative|zero|positive (or non-zero|zero)
//	time.Time     past|today|future (or past|future)
//
// Segments may instead start with condition chains like ">=18?adult|<13?child|other",
// where & is and, / is or, and the first segment without a chain is the fallback.
type ConditionalFormatter struct {
	now func() time.Time
}

// NewConditionalFormatter creates a new ConditionalFormatter
func NewConditionalFormatter() *ConditionalFormatter {
	return &ConditionalFormatter{now: time.Now}
}

// Name returns the formatter name
func (f *ConditionalFormatter) Name() string {
	return FormatterNameConditional
}

// Aliases returns the formatter aliases
func (f *ConditionalFormatter) Aliases() []string {
	return []string{FormatterAliasCond}
}

// Accepts any value when named, otherwise formats with two or more segments
func (f *ConditionalFormatter) Accepts(call *FormatCall) bool {
	if call.Explicit() {
		return call.SegmentCount() > 0
	}
	return call.SegmentCount() >= 2
}

// Render renders the chosen segment with the value as scope
func (f *ConditionalFormatter) Render(call *FormatCall) (string, error) {
	if complexConditionPattern.MatchString(call.Segment(0).LeadingText()) {
		return f.renderComplex(call)
	}

	index := f.index(call.Value(), call.SegmentCount())
	if index < 0 || index >= call.SegmentCount() {
		return StringValueEmpty, nil
	}
	return call.Recurse(index, call.Value())
}

// index returns the segment chosen for value
func (f *ConditionalFormatter) index(value any, count int) int {
	switch v := value.(type) {
	case nil:
		return 1
	case bool:
		if v {
			return 0
		}
		return 1
	case string:
		if v == StringValueEmpty {
			return 1
		}
		return 0
	case time.Duration:
		return durationIndex(v, count)
	case time.Time:
		return f.timeIndex(v, count)
	case *time.Time:
		if v == nil {
			return 1
		}
		return f.timeIndex(*v, count)
	}

	if number, ok := toFloat(value); ok {
		if number < 0 {
			return count - 1
		}
		floor := math.Floor(number)
		if floor >= float64(count-1) {
			return count - 1
		}
		return int(floor)
	}

	if IsSequence(value) {
		if len(SequenceElements(value)) == 0 {
			return 1
		}
		return 0
	}
	return 0
}

func durationIndex(d time.Duration, count int) int {
	if count >= 3 {
		switch {
		case d < 0:
			return 0
		case d == 0:
			return 1
		default:
			return 2
		}
	}
	if d == 0 {
		return 1
	}
	return 0
}

func (f *ConditionalFormatter) timeIndex(t time.Time, count int) int {
	now := f.now().In(t.Location())
	if count >= 3 {
		ty, tm, td := t.Date()
		ny, nm, nd := now.Date()
		switch {
		case ty == ny && tm == nm && td == nd:
			return 1
		case t.Before(now):
			return 0
		default:
			return 2
		}
	}
	if !t.After(now) {
		return 0
	}
	return 1
}

// renderComplex evaluates condition chains segment by segment
func (f *ConditionalFormatter) renderComplex(call *FormatCall) (string, error) {
	number, ok := toFloat(call.Value())
	if !ok {
		return StringValueEmpty, NewFormatterError(ErrMsgConditionNotNumeric, FormatterNameConditional, Stringify(call.Value()))
	}

	for i := 0; i < call.SegmentCount(); i++ {
		segment := call.Segment(i)
		chain := complexConditionPattern.FindString(segment.LeadingText())
		if chain == StringValueEmpty {
			return call.Recurse(i, call.Value())
		}
		if evaluateConditionChain(chain[:len(chain)-1], number) {
			return call.RecurseTemplate(segment.TrimLeadingText(len(chain)), call.Value())
		}
	}
	return StringValueEmpty, nil
}

// evaluateConditionChain evaluates terms left to right
func evaluateConditionChain(chain string, number float64) bool {
	result := false
	for i, term := range conditionTermPattern.FindAllStringSubmatch(chain, -1) {
		operand, err := strconv.ParseFloat(term[3], 64)
		if err != nil {
			return false
		}
		matched := compareCondition(term[2], number, operand)
		if i == 0 {
			result = matched
			continue
		}
		switch term[1] {
		case string(CondOpOr):
			result = result || matched
		default:
			result = result && matched
		}
	}
	return result
}

func compareCondition(op string, value, operand float64) bool {
	switch op {
	case condCmpLess:
		return value < operand
	case condCmpLessEqual:
		return value <= operand
	case condCmpGreater:
		return value > operand
	case condCmpGreaterEqual:
		return value >= operand
	case condCmpEqual, condCmpEqualEqual:
		return value == operand
	case condCmpNot, condCmpNotEqual:
		return value != operand
	}
	return false
}
