package models

import "encoding/json"

// Envelope is the {data, status} wrapper the upstream employee service uses
// for every response body.
type Envelope[T any] struct {
	Data   T      `json:"data"`
	Status string `json:"status"`
}

// EmployeeListEnvelope wraps a collection of employees. A missing or null
// data field decodes to a nil slice.
type EmployeeListEnvelope = Envelope[[]Employee]

// EmployeeEnvelope wraps a single employee. A missing or null data field
// decodes to a nil pointer.
type EmployeeEnvelope = Envelope[*Employee]

// RawEnvelope leaves data undecoded, for responses whose payload is not
// used (delete returns a bare boolean).
type RawEnvelope = Envelope[json.RawMessage]
