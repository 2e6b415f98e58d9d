package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored types. The call log stores a
// single small struct, so the serializers are maintained by hand instead of
// generated.
var (
	IDMUS        = idMUS{}
	CallEventMUS = callEventMUS{}
)

var (
	_ mus.Serializer[ID]        = IDMUS
	_ mus.Serializer[CallEvent] = CallEventMUS
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type callEventMUS struct{}

// Timestamps are stored as microsecond Unix values.
func (callEventMUS) Marshal(event CallEvent, bs []byte) (n int) {
	n = IDMUS.Marshal(event.Id, bs)
	n += ord.String.Marshal(event.Session, bs[n:])
	n += ord.String.Marshal(event.Tool, bs[n:])
	n += varint.Int64.Marshal(event.Timestamp.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(event.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (callEventMUS) Unmarshal(bs []byte) (event CallEvent, n int, err error) {
	var n1 int
	event.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	event.Session, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	event.Tool, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	event.Timestamp = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	event.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (callEventMUS) Size(event CallEvent) (size int) {
	size = IDMUS.Size(event.Id)
	size += ord.String.Size(event.Session)
	size += ord.String.Size(event.Tool)
	size += varint.Int64.Size(event.Timestamp.UnixMicro())
	size += varint.Int64.Size(event.InsertedAt.UnixMicro())
	return size
}

func (callEventMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = varint.Int64.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
