// Package kfmt provides formatted output routines that are safe to use from
// any point in the kernel's lifetime: no function in this package allocates
// memory.
package kfmt

import "io"

// maxBufSize defines the buffer size for formatting numbers.
const maxBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	numFmtBuf = []byte("01234567890123456789012345678901")

	// singleByte is used as a shared buffer for passing single characters
	// to the output sink.
	singleByte = []byte(" ")

	// outputSink is the io.Writer where Printf sends its output. While no
	// sink is registered, output is dropped.
	outputSink io.Writer
)

// SetOutputSink sets the target for calls to Printf to w.
func SetOutputSink(w io.Writer) {
	outputSink = w
}

// Printf formats its arguments to the registered output sink. It supports a
// subset of the fmt.Printf verbs:
//
// Strings:
//		%s the uninterpreted bytes of the string or byte slice
//
// Integers:
//              %o base 8
//              %d base 10
//              %x base 16, with lower-case letters for a-f
//
// Booleans:
//              %t "true" or "false"
//
// Width is specified by an optional decimal number immediately preceding the
// verb. If absent, the width is whatever is necessary to represent the value.
// String and base-10 values shorter than the specified width are left-padded
// with spaces; base-16 values are left-padded with zeroes.
func Printf(format string, args ...interface{}) {
	if outputSink == nil {
		return
	}

	Fprintf(outputSink, format, args...)
}

// Fprintf behaves like Printf but writes to the supplied io.Writer instead
// of the registered output sink.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var nextArg int

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			writeByte(w, format[i])
			continue
		}

		i++

		// parse the optional width
		var width int
		for ; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i >= len(format) {
			doWrite(w, errNoVerb)
			return
		}

		if format[i] == '%' {
			writeByte(w, '%')
			continue
		}

		if nextArg >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		switch format[i] {
		case 's':
			fmtString(w, args[nextArg], width)
		case 'o':
			fmtInt(w, args[nextArg], 8, width)
		case 'd':
			fmtInt(w, args[nextArg], 10, width)
		case 'x':
			fmtInt(w, args[nextArg], 16, width)
		case 't':
			fmtBool(w, args[nextArg])
		default:
			doWrite(w, errNoVerb)
		}

		nextArg++
	}

	if nextArg < len(args) {
		doWrite(w, errExtraArg)
	}
}

// fmtBool formats the boolean argument v.
func fmtBool(w io.Writer, v interface{}) {
	switch t := v.(type) {
	case bool:
		if t {
			doWrite(w, trueValue)
		} else {
			doWrite(w, falseValue)
		}
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtString formats the string or byte-slice argument v, left-padding it
// with spaces up to the requested width.
func fmtString(w io.Writer, v interface{}, width int) {
	switch t := v.(type) {
	case string:
		padString(w, width-len(t))
		for i := 0; i < len(t); i++ {
			writeByte(w, t[i])
		}
	case []byte:
		padString(w, width-len(t))
		doWrite(w, t)
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtInt formats the integer argument v in the requested base. Base-16
// values are left-padded with zeroes and all other bases with spaces up to
// the requested width.
func fmtInt(w io.Writer, v interface{}, base, width int) {
	var (
		value    uint64
		negative bool
	)

	switch t := v.(type) {
	case uint8:
		value = uint64(t)
	case uint16:
		value = uint64(t)
	case uint32:
		value = uint64(t)
	case uint64:
		value = t
	case uint:
		value = uint64(t)
	case uintptr:
		value = uint64(t)
	case int8:
		value, negative = abs(int64(t))
	case int16:
		value, negative = abs(int64(t))
	case int32:
		value, negative = abs(int64(t))
	case int64:
		value, negative = abs(t)
	case int:
		value, negative = abs(int64(t))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	index := len(numFmtBuf)
	for {
		index--
		digit := byte(value % uint64(base))
		if digit < 10 {
			numFmtBuf[index] = '0' + digit
		} else {
			numFmtBuf[index] = 'a' + digit - 10
		}

		if value /= uint64(base); value == 0 {
			break
		}
	}

	padByte := byte(' ')
	if base == 16 {
		padByte = '0'
	}

	digits := len(numFmtBuf) - index
	if negative {
		digits++
	}

	for pad := width - digits; pad > 0; pad-- {
		writeByte(w, padByte)
	}

	if negative {
		writeByte(w, '-')
	}

	doWrite(w, numFmtBuf[index:])
}

// abs returns the magnitude of v together with its sign.
func abs(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}

	return uint64(v), false
}

// padString emits pad space characters.
func padString(w io.Writer, pad int) {
	for ; pad > 0; pad-- {
		writeByte(w, ' ')
	}
}

func writeByte(w io.Writer, b byte) {
	singleByte[0] = b
	doWrite(w, singleByte)
}

func doWrite(w io.Writer, b []byte) {
	w.Write(b)
}
