package builtins

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"talon/pkg/vm"
)

// GlobalsInitializer installs global constants and the free functions the
// original runtime sets up before everything else: print, isNaN, isFinite,
// parseInt, parseFloat.
type GlobalsInitializer struct{}

func (g *GlobalsInitializer) Name() string {
	return "Globals"
}

func (g *GlobalsInitializer) Priority() int {
	return PriorityGlobals
}

func (g *GlobalsInitializer) InitRuntime(ctx *RuntimeContext) error {
	if err := ctx.DefineGlobal("Infinity", vm.NumberValue(math.Inf(1))); err != nil {
		return err
	}
	if err := ctx.DefineGlobal("NaN", vm.NaN); err != nil {
		return err
	}
	if err := ctx.DefineGlobal("undefined", vm.Undefined); err != nil {
		return err
	}
	if err := ctx.DefineGlobal("globalThis", ctx.GlobalObject); err != nil {
		return err
	}

	stdout := ctx.Stdout
	if err := ctx.DefineGlobal("print", vm.NewNativeFunction(0, true, "print", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		for _, arg := range args {
			fmt.Fprint(stdout, arg.ToString())
		}
		fmt.Fprintln(stdout)
		return vm.NumberValue(float64(len(args))), nil
	})); err != nil {
		return err
	}

	if err := ctx.DefineGlobal("isNaN", vm.NewNativeFunction(1, false, "isNaN", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return vm.True, nil
		}
		return vm.BooleanValue(math.IsNaN(args[0].ToFloat())), nil
	})); err != nil {
		return err
	}

	if err := ctx.DefineGlobal("isFinite", vm.NewNativeFunction(1, false, "isFinite", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return vm.False, nil
		}
		f := args[0].ToFloat()
		return vm.BooleanValue(!math.IsNaN(f) && !math.IsInf(f, 0)), nil
	})); err != nil {
		return err
	}

	if err := ctx.DefineGlobal("parseInt", vm.NewNativeFunction(2, false, "parseInt", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return vm.NaN, nil
		}
		radix := 0
		if len(args) > 1 && !args[1].IsUndefined() {
			radix = int(args[1].ToFloat())
		}
		return parseIntImpl(args[0].ToString(), radix), nil
	})); err != nil {
		return err
	}

	return ctx.DefineGlobal("parseFloat", vm.NewNativeFunction(1, false, "parseFloat", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return vm.NaN, nil
		}
		return parseFloatImpl(args[0].ToString()), nil
	}))
}

// parseIntImpl follows the JS grammar: optional sign, optional 0x prefix
// for radix 16 (or auto-detected radix), then the longest valid digit
// prefix. No digits means NaN.
func parseIntImpl(s string, radix int) vm.Value {
	s = strings.TrimSpace(s)
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if radix == 0 {
		radix = 10
		if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			radix = 16
			s = s[2:]
		}
	} else if radix == 16 {
		if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			s = s[2:]
		}
	}
	if radix < 2 || radix > 36 {
		return vm.NaN
	}
	end := 0
	for end < len(s) {
		if digitValue(s[end]) >= radix {
			break
		}
		end++
	}
	if end == 0 {
		return vm.NaN
	}
	n, err := strconv.ParseInt(s[:end], radix, 64)
	if err != nil {
		// Overflow: fall back to float accumulation
		f := 0.0
		for i := 0; i < end; i++ {
			f = f*float64(radix) + float64(digitValue(s[i]))
		}
		return vm.NumberValue(sign * f)
	}
	return vm.NumberValue(sign * float64(n))
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

// parseFloatImpl parses the longest valid decimal-literal prefix, plus the
// Infinity forms.
func parseFloatImpl(s string) vm.Value {
	s = strings.TrimSpace(s)
	rest := s
	neg := false
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "Infinity") {
		if neg {
			return vm.NumberValue(math.Inf(-1))
		}
		return vm.NumberValue(math.Inf(1))
	}

	end := 0
	seenDigit := false
	seenDot := false
	for end < len(rest) {
		c := rest[end]
		if c >= '0' && c <= '9' {
			seenDigit = true
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	// Optional exponent, only after at least one digit
	if seenDigit && end < len(rest) && (rest[end] == 'e' || rest[end] == 'E') {
		expEnd := end + 1
		if expEnd < len(rest) && (rest[expEnd] == '+' || rest[expEnd] == '-') {
			expEnd++
		}
		digits := 0
		for expEnd < len(rest) && rest[expEnd] >= '0' && rest[expEnd] <= '9' {
			expEnd++
			digits++
		}
		if digits > 0 {
			end = expEnd
		}
	}
	if !seenDigit {
		return vm.NaN
	}
	f, err := strconv.ParseFloat(rest[:end], 64)
	if err != nil {
		return vm.NaN
	}
	if neg {
		f = -f
	}
	return vm.NumberValue(f)
}
