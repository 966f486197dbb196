package formula

import (
	"fmt"
	"strings"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

// funcID identifies a library function. The set is closed.
type funcID int

const (
	// Logical
	fnIF funcID = iota
	fnAND
	fnOR
	fnNOT

	// Type tests
	fnISBLANK
	fnISNUMBER
	fnISTEXT
	fnN

	// Math
	fnABS
	fnROUND
	fnFLOOR
	fnCEILING
	fnMIN
	fnMAX
	fnSQRT

	// Text
	fnLEN
	fnLEFT
	fnRIGHT
	fnMID
	fnUPPER
	fnLOWER
	fnPROPER
	fnTRIM
	fnCONCAT
	fnCONCATENATE
	fnTEXTJOIN
	fnSUBSTITUTE

	// Date
	fnTODAY
	fnNOW
	fnDATE
	fnYEAR
	fnMONTH
	fnDAY
	fnDATEDIF

	// Cross-row
	fnSUMIF
	fnCOUNTIF
	fnAVERAGEIF
	fnLOOKUP

	numFuncs
)

const variadic = -1

type builtin struct {
	name    string
	minArgs int
	maxArgs int // variadic for no upper bound
	call    func(e *env, args *argList) (data.Value, error)
}

func (b *builtin) arity() string {
	switch {
	case b.maxArgs == variadic:
		return fmt.Sprintf("at least %d argument(s)", b.minArgs)
	case b.minArgs == b.maxArgs:
		return fmt.Sprintf("%d argument(s)", b.minArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", b.minArgs, b.maxArgs)
	}
}

// builtins is indexed by funcID. It is filled in init to break the
// initialization cycle between the table and the evaluator.
var builtins [numFuncs]builtin

var funcsByName map[string]funcID

func init() {
	builtins = [numFuncs]builtin{
		fnIF:  {"IF", 2, 3, fnIf},
		fnAND: {"AND", 1, variadic, fnAnd},
		fnOR:  {"OR", 1, variadic, fnOr},
		fnNOT: {"NOT", 1, 1, fnNot},

		fnISBLANK:  {"ISBLANK", 1, 1, fnIsBlank},
		fnISNUMBER: {"ISNUMBER", 1, 1, fnIsNumber},
		fnISTEXT:   {"ISTEXT", 1, 1, fnIsText},
		fnN:        {"N", 1, 1, fnToNumber},

		fnABS:     {"ABS", 1, 1, fnAbs},
		fnROUND:   {"ROUND", 1, 2, fnRound},
		fnFLOOR:   {"FLOOR", 1, 2, fnFloor},
		fnCEILING: {"CEILING", 1, 2, fnCeiling},
		fnMIN:     {"MIN", 0, variadic, fnMin},
		fnMAX:     {"MAX", 0, variadic, fnMax},
		fnSQRT:    {"SQRT", 1, 1, fnSqrt},

		fnLEN:         {"LEN", 1, 1, fnLen},
		fnLEFT:        {"LEFT", 1, 2, fnLeft},
		fnRIGHT:       {"RIGHT", 1, 2, fnRight},
		fnMID:         {"MID", 3, 3, fnMid},
		fnUPPER:       {"UPPER", 1, 1, fnUpper},
		fnLOWER:       {"LOWER", 1, 1, fnLower},
		fnPROPER:      {"PROPER", 1, 1, fnProper},
		fnTRIM:        {"TRIM", 1, 1, fnTrim},
		fnCONCAT:      {"CONCAT", 1, variadic, fnConcat},
		fnCONCATENATE: {"CONCATENATE", 1, variadic, fnConcat},
		fnTEXTJOIN:    {"TEXTJOIN", 3, variadic, fnTextJoin},
		fnSUBSTITUTE:  {"SUBSTITUTE", 3, 3, fnSubstitute},

		fnTODAY:   {"TODAY", 0, 0, fnToday},
		fnNOW:     {"NOW", 0, 0, fnNow},
		fnDATE:    {"DATE", 3, 3, fnDate},
		fnYEAR:    {"YEAR", 1, 1, fnYear},
		fnMONTH:   {"MONTH", 1, 1, fnMonth},
		fnDAY:     {"DAY", 1, 1, fnDay},
		fnDATEDIF: {"DATEDIF", 2, 3, fnDateDif},

		fnSUMIF:     {"SUMIF", 2, 3, fnSumIf},
		fnCOUNTIF:   {"COUNTIF", 2, 2, fnCountIf},
		fnAVERAGEIF: {"AVERAGEIF", 2, 3, fnAverageIf},
		fnLOOKUP:    {"LOOKUP", 3, 3, fnLookup},
	}

	funcsByName = make(map[string]funcID, numFuncs)
	for id := funcID(0); id < numFuncs; id++ {
		funcsByName[builtins[id].name] = id
	}
}

// lookupFunc resolves a function name, case-insensitively
func lookupFunc(name string) (funcID, bool) {
	id, ok := funcsByName[strings.ToUpper(name)]
	return id, ok
}

// FunctionNames lists the library in declaration order
func FunctionNames() []string {
	names := make([]string, numFuncs)
	for id := funcID(0); id < numFuncs; id++ {
		names[id] = builtins[id].name
	}
	return names
}

// argList evaluates call arguments on demand, at most once each.
// IF, AND and OR rely on this to short-circuit.
type argList struct {
	env   *env
	nodes []node
	vals  []data.Value
	done  []bool
}

func (a *argList) Len() int {
	return len(a.nodes)
}

func (a *argList) Value(i int) (data.Value, error) {
	if a.vals == nil {
		a.vals = make([]data.Value, len(a.nodes))
		a.done = make([]bool, len(a.nodes))
	}
	if a.done[i] {
		return a.vals[i], nil
	}
	v, err := a.nodes[i].eval(a.env)
	if err != nil {
		return nil, err
	}
	a.vals[i], a.done[i] = v, true
	return v, nil
}

func (a *argList) Number(i int) (float64, error) {
	v, err := a.Value(i)
	if err != nil {
		return 0, err
	}
	return coerce.ToNumber(v), nil
}

// NumberOr reads an optional numeric argument
func (a *argList) NumberOr(i int, def float64) (float64, error) {
	if i >= a.Len() {
		return def, nil
	}
	return a.Number(i)
}

func (a *argList) Text(i int) (string, error) {
	v, err := a.Value(i)
	if err != nil {
		return "", err
	}
	return coerce.ToText(v), nil
}

// TextOr reads an optional text argument
func (a *argList) TextOr(i int, def string) (string, error) {
	if i >= a.Len() {
		return def, nil
	}
	return a.Text(i)
}

func (a *argList) Bool(i int) (bool, error) {
	v, err := a.Value(i)
	if err != nil {
		return false, err
	}
	return coerce.Truthy(v), nil
}

// All evaluates every argument in order
func (a *argList) All() ([]data.Value, error) {
	out := make([]data.Value, a.Len())
	for i := range out {
		v, err := a.Value(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
