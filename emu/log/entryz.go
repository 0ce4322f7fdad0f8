package log

import (
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

// LogContext is implemented by components that want to attach extra
// fields (current frame, scanline) to every entry emitted while they run.
type LogContext interface {
	AddLogContext(z *EntryZ)
}

var contexts []LogContext

func AddContext(c LogContext) {
	contexts = append(contexts, c)
}

// EntryZ builds a log entry without intermediate allocations. A nil
// *EntryZ is valid and all its methods are no-ops, so call sites on
// disabled modules pay for a single branch and nothing else.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [16]ZField
	zfidx int
}

var entryzPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	z := entryzPool.Get().(*EntryZ)
	z.zfidx = 0
	return z
}

func (z *EntryZ) field(typ FieldType, key string) *ZField {
	if z.zfidx == len(z.zfbuf) {
		// overflow field, formatted and thrown away
		return &ZField{Type: typ, Key: key}
	}
	f := &z.zfbuf[z.zfidx]
	z.zfidx++
	*f = ZField{Type: typ, Key: key}
	return f
}

func (z *EntryZ) String(key string, val string) *EntryZ {
	if z != nil {
		z.field(FieldTypeString, key).String = val
	}
	return z
}

func (z *EntryZ) Bool(key string, val bool) *EntryZ {
	if z != nil {
		z.field(FieldTypeBool, key).Boolean = val
	}
	return z
}

func (z *EntryZ) Int(key string, val int) *EntryZ {
	if z != nil {
		z.field(FieldTypeInt, key).Integer = uint64(val)
	}
	return z
}

func (z *EntryZ) Uint(key string, val uint) *EntryZ {
	if z != nil {
		z.field(FieldTypeUint, key).Integer = uint64(val)
	}
	return z
}

func (z *EntryZ) Hex8(key string, val uint8) *EntryZ {
	if z != nil {
		z.field(FieldTypeHex8, key).Integer = uint64(val)
	}
	return z
}

func (z *EntryZ) Hex16(key string, val uint16) *EntryZ {
	if z != nil {
		z.field(FieldTypeHex16, key).Integer = uint64(val)
	}
	return z
}

func (z *EntryZ) Hex32(key string, val uint32) *EntryZ {
	if z != nil {
		z.field(FieldTypeHex32, key).Integer = uint64(val)
	}
	return z
}

func (z *EntryZ) Hex64(key string, val uint64) *EntryZ {
	if z != nil {
		z.field(FieldTypeHex64, key).Integer = val
	}
	return z
}

// Fix8 logs an 8.8 fixed-point value as a decimal number.
func (z *EntryZ) Fix8(key string, val int32) *EntryZ {
	if z != nil {
		z.field(FieldTypeFix8, key).Integer = uint64(uint32(val))
	}
	return z
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	if z != nil {
		z.field(FieldTypeError, key).Error = err
	}
	return z
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	if z != nil {
		z.field(FieldTypeDuration, key).Duration = d
	}
	return z
}

func (z *EntryZ) Stringer(key string, val any) *EntryZ {
	if z != nil {
		z.field(FieldTypeStringer, key).Interface = val
	}
	return z
}

func (z *EntryZ) Blob(key string, val []byte) *EntryZ {
	if z != nil {
		z.field(FieldTypeBlob, key).Blob = val
	}
	return z
}

// End emits the entry and recycles it. The receiver must not be used
// afterwards.
func (z *EntryZ) End() {
	if z == nil {
		return
	}
	for _, c := range contexts {
		c.AddLogContext(z)
	}
	fields := make(logrus.Fields, z.zfidx)
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().
		WithField("_mod", modNames[z.mod]).
		WithFields(fields)
	switch z.lvl {
	case DebugLevel:
		entry.Debug(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	case PanicLevel:
		entry.Panic(z.msg)
	}
	entryzPool.Put(z)
}
