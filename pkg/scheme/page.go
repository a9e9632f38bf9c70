package scheme

import "encoding/json"

// Page is the uniform pagination contract for every list endpoint.
// The server is inconsistent about envelopes: farmers come wrapped in a
// DRF-style {count,next,previous,results} object while attendance,
// discipline and payments come as bare arrays. Both shapes decode into a
// Page so callers see a single contract.
type Page[T any] struct {
	Count    int64  `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

// HasNext reports whether another page follows this one
func (p *Page[T]) HasNext() bool {
	return p.Next != ""
}

// UnmarshalJSON accepts either a pagination envelope or a bare array
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := firstNonSpace(data)
	if trimmed == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		p.Count = int64(len(items))
		p.Next = ""
		p.Previous = ""
		p.Results = items
		return nil
	}

	type envelope Page[T]
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	if p.Count == 0 {
		p.Count = int64(len(p.Results))
	}
	return nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}
