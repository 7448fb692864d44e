package models

import "encoding/json"

// Optional отличает "поле не передано" от "поле передано" (в том числе как null).
// encoding/json вызывает UnmarshalJSON только для присутствующих ключей,
// поэтому Set == true ровно тогда, когда поле было в теле запроса.
// Для обнуляемых полей используется Optional с указателем, например
// Optional[*time.Time]: {"due_date": null} даёт Set=true, Value=nil.
type Optional[T any] struct {
	Set   bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}
