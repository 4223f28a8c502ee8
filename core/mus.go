// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the persisted types. Field order is
// part of the on-disk format: append new fields, never reorder or remove.

var (
	// IDMUS serializes core.ID values.
	IDMUS = idMUS{}
	// StatementMUS serializes Statement records.
	StatementMUS = statementMUS{}
	// EventMUS serializes event log entries. Timestamps are stored with
	// microsecond precision.
	EventMUS = eventMUS{}
)

var (
	_ mus.Serializer[ID]        = IDMUS
	_ mus.Serializer[Statement] = StatementMUS
	_ mus.Serializer[Event]     = EventMUS
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	raw, n, err := varint.Uint64.Unmarshal(bs)
	return ID(raw), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type statementMUS struct{}

func (statementMUS) Marshal(v Statement, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Float64.Marshal(v.Weight, bs[n:])
	return n
}

func (statementMUS) Unmarshal(bs []byte) (v Statement, n int, err error) {
	var n1 int
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Weight, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (statementMUS) Size(v Statement) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Text)
	size += varint.Float64.Size(v.Weight)
	return size
}

func (statementMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float64.Skip(bs[n:])
	n += n1
	return
}

type eventMUS struct{}

func (eventMUS) Marshal(v Event, bs []byte) (n int) {
	n = varint.Uint64.Marshal(v.Seq, bs)
	n += varint.Int64.Marshal(int64(v.Kind), bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.StatementId, bs[n:])
	n += varint.Float64.Marshal(v.Weight, bs[n:])
	n += varint.Int64.Marshal(v.At.UnixMicro(), bs[n:])
	return n
}

func (eventMUS) Unmarshal(bs []byte) (v Event, n int, err error) {
	var n1 int
	v.Seq, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	var kind int64
	kind, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Kind = EventKind(kind)
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StatementId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Weight, n1, err = varint.Float64.Unmarshal(bs[n:])
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
	v.At = time.UnixMicro(micros).UTC()
	return
}

func (eventMUS) Size(v Event) (size int) {
	size = varint.Uint64.Size(v.Seq)
	size += varint.Int64.Size(int64(v.Kind))
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.StatementId)
	size += varint.Float64.Size(v.Weight)
	size += varint.Int64.Size(v.At.UnixMicro())
	return size
}

func (eventMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
