package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/roach88/hashdrift/internal/graph"
)

// Encode serializes v under protocol p.
//
// The returned stream is finite for every graph, cyclic or not. A
// *SerializationError is returned when p cannot represent some part of
// v; any other error indicates a value outside the graph model.
func Encode(v graph.Value, p Protocol) ([]byte, error) {
	if !p.Valid() {
		return nil, &SerializationError{
			Kind:     KindUnsupportedProtocol,
			Message:  fmt.Sprintf("protocol %d not in [0, %d]", int(p), int(MaxProtocol)),
			Protocol: p,
		}
	}

	e := newEncoder(p, true)
	if err := e.encode(v); err != nil {
		return nil, err
	}
	e.buf.WriteByte(opStop)

	var out bytes.Buffer
	if p.hasHeader() {
		out.WriteByte(opProto)
		out.WriteByte(byte(p))
	}
	if p.hasFraming() {
		out.WriteByte(opFrame)
		out.Write(binary.LittleEndian.AppendUint64(nil, uint64(e.buf.Len())))
	}
	out.Write(e.buf.Bytes())
	return out.Bytes(), nil
}

// encoder holds the state of one Encode call. It is never shared.
type encoder struct {
	buf   bytes.Buffer
	proto Protocol

	// memoize is false for set-element sub-encoders: their output is
	// sorted and spliced, so memo indices must not leak across elements.
	memoize bool
	memo    map[graph.Value]int
	anon    int

	// active counts in-progress visits of immutable composites.
	active map[graph.Value]int
}

func newEncoder(p Protocol, memoize bool) *encoder {
	return &encoder{
		proto:   p,
		memoize: memoize,
		memo:    make(map[graph.Value]int),
		active:  make(map[graph.Value]int),
	}
}

func (e *encoder) encode(v graph.Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("codec: nil value in graph")
	case graph.None:
		e.buf.WriteByte(opNone)
	case graph.Bool:
		e.writeBool(bool(val))
	case graph.Int:
		e.writeInt(int64(val))
	case graph.Float:
		e.writeFloat(float64(val))
	case graph.Float32:
		return e.writeFloat32(float32(val))
	case graph.Complex:
		e.writeGlobal("builtins", "complex")
		e.openTuple(2)
		e.writeFloat(real(complex128(val)))
		e.writeFloat(imag(complex128(val)))
		e.closeTuple(2)
		e.buf.WriteByte(opReduce)
	case graph.Str:
		e.writeStr(string(val))
	case graph.Bytes:
		return e.writeBytes(val)
	case graph.Timestamp:
		return e.writeTimestamp(val)
	case *graph.List, *graph.Tuple, *graph.Set, *graph.Dict, *graph.OrderedMap,
		*graph.DefaultMap, *graph.NamedTuple, *graph.Object:
		return e.encodeComposite(v)
	default:
		return fmt.Errorf("codec: unsupported value type %T", v)
	}
	return nil
}

func (e *encoder) encodeComposite(v graph.Value) error {
	if e.memoize {
		if idx, ok := e.memo[v]; ok {
			e.writeGet(idx)
			return nil
		}
	}

	switch val := v.(type) {
	case *graph.List:
		return e.encodeList(val)
	case *graph.Tuple:
		n := len(val.Items)
		return e.encodeTuple(val, val.Items, 0, !e.shortTuple(n), func() error {
			e.closeTuple(n)
			return nil
		})
	case *graph.NamedTuple:
		e.writeGlobal("__main__", val.Type.Name)
		return e.encodeTuple(val, val.Values, 1, true, func() error {
			e.buf.WriteByte(opTuple)
			if e.proto.hasNewObj() {
				e.buf.WriteByte(opNewObj)
			} else {
				e.buf.WriteByte(opReduce)
			}
			return nil
		})
	case *graph.Set:
		return e.encodeSet(val)
	case *graph.Dict:
		e.buf.WriteByte(opEmptyDict)
		e.put(val)
		return e.writeEntries(val.Entries())
	case *graph.OrderedMap:
		e.writeGlobal("collections", "OrderedDict")
		e.buf.WriteByte(opEmptyTuple)
		e.buf.WriteByte(opReduce)
		e.put(val)
		return e.writeEntries(val.Entries())
	case *graph.DefaultMap:
		e.writeGlobal("collections", "defaultdict")
		e.openTuple(1)
		e.writeGlobal("builtins", val.Factory.Name)
		e.closeTuple(1)
		e.buf.WriteByte(opReduce)
		e.put(val)
		return e.writeEntries(val.Entries())
	case *graph.Object:
		return e.encodeObject(val)
	}
	return fmt.Errorf("codec: unsupported composite %T", v)
}

func (e *encoder) encodeList(l *graph.List) error {
	e.buf.WriteByte(opEmptyList)
	e.put(l)
	if len(l.Items) == 0 {
		return nil
	}
	if e.proto.textual() {
		for _, it := range l.Items {
			if err := e.encode(it); err != nil {
				return err
			}
			e.buf.WriteByte(opAppend)
		}
		return nil
	}
	e.buf.WriteByte(opMark)
	for _, it := range l.Items {
		if err := e.encode(it); err != nil {
			return err
		}
	}
	e.buf.WriteByte(opAppends)
	return nil
}

// encodeTuple writes an immutable sequence. prefix is the number of stack
// items the caller pushed before the items (e.g. a type reference); marked
// tells whether the items are opened with MARK.
//
// If a child cycle memoized owner while its items were being written, the
// partial build is popped and replaced by a back-reference. An owner
// entered a third time has no mutable composite on its cycle, which no
// protocol can represent.
func (e *encoder) encodeTuple(owner graph.Value, items []graph.Value, prefix int, marked bool, finish func() error) error {
	if e.active[owner] >= 2 {
		return unsupported(e.proto, "cycle through immutable %s", owner.Kind())
	}
	e.active[owner]++
	defer func() { e.active[owner]-- }()

	if marked {
		e.buf.WriteByte(opMark)
	}
	for _, it := range items {
		if err := e.encode(it); err != nil {
			return err
		}
	}

	if e.memoize {
		if idx, ok := e.memo[owner]; ok {
			e.discard(len(items), prefix, marked)
			e.writeGet(idx)
			return nil
		}
	}

	if err := finish(); err != nil {
		return err
	}
	e.put(owner)
	return nil
}

// shortTuple reports whether a tuple of n items is built without MARK.
func (e *encoder) shortTuple(n int) bool {
	return n == 0 || (e.proto.hasShortTuples() && n <= 3)
}

func (e *encoder) openTuple(n int) {
	if !e.shortTuple(n) {
		e.buf.WriteByte(opMark)
	}
}

func (e *encoder) closeTuple(n int) {
	switch {
	case n == 0:
		e.buf.WriteByte(opEmptyTuple)
	case !e.shortTuple(n):
		e.buf.WriteByte(opTuple)
	case n == 1:
		e.buf.WriteByte(opTuple1)
	case n == 2:
		e.buf.WriteByte(opTuple2)
	default:
		e.buf.WriteByte(opTuple3)
	}
}

// discard pops a partially built tuple off the stack.
func (e *encoder) discard(n, prefix int, marked bool) {
	if marked && !e.proto.textual() {
		e.buf.WriteByte(opPopMark)
	} else {
		pops := n
		if marked {
			pops++
		}
		for i := 0; i < pops; i++ {
			e.buf.WriteByte(opPop)
		}
	}
	for i := 0; i < prefix; i++ {
		e.buf.WriteByte(opPop)
	}
}

func (e *encoder) encodeSet(s *graph.Set) error {
	elems := make([][]byte, 0, len(s.Items))
	for _, it := range s.Items {
		if it == nil {
			return fmt.Errorf("codec: nil set element")
		}
		if !graph.Hashable(it) {
			return unhashable(e.proto, "set element of kind "+it.Kind().String())
		}
		sub := newEncoder(e.proto, false)
		if err := sub.encode(it); err != nil {
			return err
		}
		elems = append(elems, sub.buf.Bytes())
	}
	slices.SortFunc(elems, bytes.Compare)

	if e.proto.hasNativeSets() {
		if s.Frozen {
			e.buf.WriteByte(opMark)
			e.writeRaw(elems)
			e.buf.WriteByte(opFrozenSet)
			e.put(s)
			return nil
		}
		e.buf.WriteByte(opEmptySet)
		e.put(s)
		if len(elems) > 0 {
			e.buf.WriteByte(opMark)
			e.writeRaw(elems)
			e.buf.WriteByte(opAddItems)
		}
		return nil
	}

	name := "set"
	if s.Frozen {
		name = "frozenset"
	}
	e.writeGlobal("builtins", name)
	e.openTuple(1)
	e.buf.WriteByte(opEmptyList)
	if len(elems) > 0 {
		if e.proto.textual() {
			for _, b := range elems {
				e.buf.Write(b)
				e.buf.WriteByte(opAppend)
			}
		} else {
			e.buf.WriteByte(opMark)
			e.writeRaw(elems)
			e.buf.WriteByte(opAppends)
		}
	}
	e.closeTuple(1)
	e.buf.WriteByte(opReduce)
	e.put(s)
	return nil
}

func (e *encoder) writeRaw(chunks [][]byte) {
	for _, b := range chunks {
		e.buf.Write(b)
	}
}

func (e *encoder) writeEntries(entries []graph.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	textual := e.proto.textual()
	if !textual {
		e.buf.WriteByte(opMark)
	}
	for _, en := range entries {
		if en.Key == nil {
			return fmt.Errorf("codec: nil mapping key")
		}
		if !graph.Hashable(en.Key) {
			return unhashable(e.proto, "mapping key of kind "+en.Key.Kind().String())
		}
		if err := e.encode(en.Key); err != nil {
			return err
		}
		if err := e.encode(en.Value); err != nil {
			return err
		}
		if textual {
			e.buf.WriteByte(opSetItem)
		}
	}
	if !textual {
		e.buf.WriteByte(opSetItems)
	}
	return nil
}

func (e *encoder) encodeObject(o *graph.Object) error {
	rec := o.Record()
	if rec == nil {
		return fmt.Errorf("codec: object with nil record")
	}
	e.writeGlobal("__main__", rec.TypeName())
	e.buf.WriteByte(opEmptyTuple)
	if e.proto.hasNewObj() {
		e.buf.WriteByte(opNewObj)
	} else {
		e.buf.WriteByte(opReduce)
	}
	e.put(o)

	fields := rec.Fields()
	if len(fields) == 0 {
		return nil
	}
	state := make([]graph.Entry, len(fields))
	for i, f := range fields {
		state[i] = graph.Entry{Key: graph.Str(f.Name), Value: f.Value}
	}
	e.buf.WriteByte(opEmptyDict)
	e.putAnonymous()
	if err := e.writeEntries(state); err != nil {
		return err
	}
	e.buf.WriteByte(opBuild)
	return nil
}

func (e *encoder) writeBool(b bool) {
	if e.proto.hasNewObj() {
		if b {
			e.buf.WriteByte(opNewTrue)
		} else {
			e.buf.WriteByte(opNewFalse)
		}
		return
	}
	e.buf.WriteByte(opInt)
	if b {
		e.buf.WriteString("01\n")
	} else {
		e.buf.WriteString("00\n")
	}
}

func (e *encoder) writeInt(n int64) {
	if e.proto.textual() {
		e.buf.WriteByte(opInt)
		e.buf.WriteString(strconv.FormatInt(n, 10))
		e.buf.WriteByte('\n')
		return
	}
	switch {
	case n >= 0 && n <= math.MaxUint8:
		e.buf.WriteByte(opBinInt1)
		e.buf.WriteByte(byte(n))
	case n >= 0 && n <= math.MaxUint16:
		e.buf.WriteByte(opBinInt2)
		e.buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(n)))
	case n >= math.MinInt32 && n <= math.MaxInt32:
		e.buf.WriteByte(opBinInt)
		e.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(int32(n))))
	case e.proto.hasShortTuples():
		b := twosComplement(n)
		e.buf.WriteByte(opLong1)
		e.buf.WriteByte(byte(len(b)))
		e.buf.Write(b)
	default:
		e.buf.WriteByte(opLong)
		e.buf.WriteString(strconv.FormatInt(n, 10))
		e.buf.WriteString("L\n")
	}
}

// twosComplement returns the minimal little-endian two's complement
// encoding of n.
func twosComplement(n int64) []byte {
	b := binary.LittleEndian.AppendUint64(nil, uint64(n))
	for len(b) > 1 {
		last, prev := b[len(b)-1], b[len(b)-2]
		if (last == 0x00 && prev&0x80 == 0) || (last == 0xff && prev&0x80 != 0) {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}

func (e *encoder) writeFloat(f float64) {
	if e.proto.textual() {
		e.buf.WriteByte(opFloat)
		e.buf.WriteString(formatFloat(f))
		e.buf.WriteByte('\n')
		return
	}
	e.buf.WriteByte(opBinFloat)
	e.buf.Write(binary.BigEndian.AppendUint64(nil, math.Float64bits(f)))
}

// formatFloat renders f in shortest round-trip form. The sign of zero and
// of infinities is kept.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (e *encoder) writeFloat32(f float32) error {
	if !e.proto.hasBoxedFloats() {
		return unsupported(e.proto, "boxed float32 requires protocol 2")
	}
	e.writeGlobal("numeric", "float32")
	e.openTuple(1)
	e.buf.WriteByte(opBinFloat32)
	e.buf.Write(binary.BigEndian.AppendUint32(nil, math.Float32bits(f)))
	e.closeTuple(1)
	e.buf.WriteByte(opReduce)
	return nil
}

func (e *encoder) writeStr(s string) {
	switch {
	case e.proto.textual():
		e.buf.WriteByte(opUnicode)
		e.buf.WriteString(strconv.QuoteToASCII(s))
		e.buf.WriteByte('\n')
	case e.proto.hasStackGlobal() && len(s) <= math.MaxUint8:
		e.buf.WriteByte(opShortBinUnicode)
		e.buf.WriteByte(byte(len(s)))
		e.buf.WriteString(s)
	default:
		e.buf.WriteByte(opBinUnicode)
		e.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(s))))
		e.buf.WriteString(s)
	}
}

func (e *encoder) writeBytes(b graph.Bytes) error {
	switch {
	case !e.proto.hasBytes():
		return unsupported(e.proto, "bytes require protocol 3")
	case e.proto.hasBytes8():
		e.buf.WriteByte(opBinBytes8)
		e.buf.Write(binary.LittleEndian.AppendUint64(nil, uint64(len(b))))
	case len(b) <= math.MaxUint8:
		e.buf.WriteByte(opShortBinBytes)
		e.buf.WriteByte(byte(len(b)))
	default:
		e.buf.WriteByte(opBinBytes)
		e.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(b))))
	}
	e.buf.Write(b)
	return nil
}

// Years a datetime payload can carry.
const (
	minYear = 1
	maxYear = 9999
)

// writeTimestamp writes a datetime constructor. The binary payload is 10
// bytes: year (uint16 BE), month, day, hour, minute, second, microsecond
// (uint24 BE).
func (e *encoder) writeTimestamp(ts graph.Timestamp) error {
	t := ts.Time()
	if y := t.Year(); y < minYear || y > maxYear {
		return unsupported(e.proto, "datetime year %d outside [%d, %d]", y, minYear, maxYear)
	}
	e.writeGlobal("datetime", "datetime")
	e.openTuple(1)
	if e.proto.textual() {
		e.buf.WriteByte(opTextDatetime)
		e.buf.WriteString(t.Format("2006-01-02T15:04:05.000000"))
		e.buf.WriteByte('\n')
	} else {
		us := ts.Microsecond()
		e.buf.WriteByte(opBinDatetime)
		e.buf.Write([]byte{
			byte(t.Year() >> 8), byte(t.Year()),
			byte(t.Month()), byte(t.Day()),
			byte(t.Hour()), byte(t.Minute()), byte(t.Second()),
			byte(us >> 16), byte(us >> 8), byte(us),
		})
	}
	e.closeTuple(1)
	e.buf.WriteByte(opReduce)
	return nil
}

func (e *encoder) writeGlobal(module, name string) {
	if e.proto.hasStackGlobal() {
		e.writeStr(module)
		e.writeStr(name)
		e.buf.WriteByte(opStackGlobal)
		return
	}
	e.buf.WriteByte(opGlobal)
	e.buf.WriteString(module)
	e.buf.WriteByte('\n')
	e.buf.WriteString(name)
	e.buf.WriteByte('\n')
}

// put memoizes v under the next index.
func (e *encoder) put(v graph.Value) {
	if !e.memoize {
		return
	}
	e.memo[v] = e.writePut()
}

// putAnonymous reserves a memo slot for a value nothing can refer back to.
func (e *encoder) putAnonymous() {
	if !e.memoize {
		return
	}
	e.writePut()
	e.anon++
}

func (e *encoder) nextIndex() int {
	return len(e.memo) + e.anon
}

func (e *encoder) writePut() int {
	idx := e.nextIndex()
	switch {
	case e.proto.implicitMemo():
		e.buf.WriteByte(opMemoize)
	case e.proto.textual():
		e.buf.WriteByte(opPut)
		e.buf.WriteString(strconv.Itoa(idx))
		e.buf.WriteByte('\n')
	case idx <= math.MaxUint8:
		e.buf.WriteByte(opBinPut)
		e.buf.WriteByte(byte(idx))
	default:
		e.buf.WriteByte(opLongBinPut)
		e.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(idx)))
	}
	return idx
}

func (e *encoder) writeGet(idx int) {
	switch {
	case e.proto.textual():
		e.buf.WriteByte(opGet)
		e.buf.WriteString(strconv.Itoa(idx))
		e.buf.WriteByte('\n')
	case idx <= math.MaxUint8:
		e.buf.WriteByte(opBinGet)
		e.buf.WriteByte(byte(idx))
	default:
		e.buf.WriteByte(opLongBinGet)
		e.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(idx)))
	}
}
