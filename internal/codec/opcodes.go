package codec

// Opcodes. Text forms (protocol 0) are terminated by '\n'.
const (
	opMark            byte = '('
	opStop            byte = '.'
	opPop             byte = '0'
	opPopMark         byte = '1'
	opNone            byte = 'N'
	opInt             byte = 'I' // text
	opBinInt          byte = 'J' // int32 LE
	opBinInt1         byte = 'K' // uint8
	opBinInt2         byte = 'M' // uint16 LE
	opLong            byte = 'L' // text
	opFloat           byte = 'F' // text
	opBinFloat        byte = 'G' // float64 BE bits
	opBinFloat32      byte = 'W' // float32 BE bits
	opUnicode         byte = 'V' // text, quoted
	opBinUnicode      byte = 'X' // uint32 LE length
	opBinBytes        byte = 'B' // uint32 LE length
	opShortBinBytes   byte = 'C' // uint8 length
	opTextDatetime    byte = 'D'
	opBinDatetime     byte = 'd'
	opAppend          byte = 'a'
	opAppends         byte = 'e'
	opBuild           byte = 'b'
	opGlobal          byte = 'c'
	opEmptyDict       byte = '}'
	opEmptyList       byte = ']'
	opEmptyTuple      byte = ')'
	opGet             byte = 'g'
	opBinGet          byte = 'h'
	opLongBinGet      byte = 'j'
	opPut             byte = 'p'
	opBinPut          byte = 'q'
	opLongBinPut      byte = 'r'
	opReduce          byte = 'R'
	opSetItem         byte = 's'
	opSetItems        byte = 'u'
	opTuple           byte = 't'
	opProto           byte = 0x80
	opNewObj          byte = 0x81
	opTuple1          byte = 0x85
	opTuple2          byte = 0x86
	opTuple3          byte = 0x87
	opNewTrue         byte = 0x88
	opNewFalse        byte = 0x89
	opLong1           byte = 0x8a
	opShortBinUnicode byte = 0x8c
	opBinBytes8       byte = 0x8e
	opEmptySet        byte = 0x8f
	opAddItems        byte = 0x90
	opFrozenSet       byte = 0x91
	opStackGlobal     byte = 0x93
	opMemoize         byte = 0x94
	opFrame           byte = 0x95
)
