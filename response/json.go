// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/facility-vision/catalog"
)

var ErrUnknownType = errors.New("unknown question type")

// Responses travel without a discriminator; the owning question's type
// decides which shape to decode.

type singleJSON struct {
	Selected *string `json:"selected"`
	Other    *string `json:"other"`
}

type multiJSON struct {
	Selected []string `json:"selected"`
	Other    *string  `json:"other"`
}

type rankJSON struct {
	Ranked []string `json:"ranked"`
}

func (s Single) MarshalJSON() ([]byte, error) {
	return json.Marshal(singleJSON{Selected: nullable(s.Selected), Other: nullable(s.Other)})
}

func (s *Single) UnmarshalJSON(data []byte) error {
	var w singleJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Single{Selected: deref(w.Selected), Other: deref(w.Other)}
	return nil
}

func (m Multi) MarshalJSON() ([]byte, error) {
	selected := m.Selected
	if selected == nil {
		selected = []string{}
	}
	return json.Marshal(multiJSON{Selected: selected, Other: nullable(m.Other)})
}

func (m *Multi) UnmarshalJSON(data []byte) error {
	var w multiJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Multi{Selected: dedupe(w.Selected), Other: deref(w.Other)}
	return nil
}

func (r Rank) MarshalJSON() ([]byte, error) {
	ranked := r.Ranked
	if ranked == nil {
		ranked = []string{}
	}
	return json.Marshal(rankJSON{Ranked: ranked})
}

func (r *Rank) UnmarshalJSON(data []byte) error {
	var w rankJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Rank{Ranked: dedupe(w.Ranked)}
	return nil
}

// MarshalJSON writes allocations as an object in insertion order.
func (a Allocations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, e := range a {
		if e.Value <= 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(e.Zone)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.Value))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order. Values are rounded,
// clamped to [0,100] and dropped when zero.
func (a *Allocations) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("allocations: expected object, got %v", tok)
	}

	var out Allocations
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		zone, _ := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("allocations[%s]: %w", zone, err)
		}
		var n json.Number
		switch v := valTok.(type) {
		case json.Number:
			n = v
		case string:
			n = json.Number(v)
		default:
			return fmt.Errorf("allocations[%s]: expected number, got %v", zone, valTok)
		}
		v, err := toInt(n)
		if err != nil {
			return fmt.Errorf("allocations[%s]: %w", zone, err)
		}
		out = out.With(zone, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// Decode parses one response for question q. Rank answers are cut to the
// question's rankSlots.
func Decode(data []byte, q catalog.Question) (Response, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	switch q.Type {
	case catalog.Single:
		var v Single
		err := json.Unmarshal(data, &v)
		return v, err
	case catalog.Multi:
		var v Multi
		err := json.Unmarshal(data, &v)
		return v, err
	case catalog.Text:
		var v Text
		err := json.Unmarshal(data, &v)
		return v, err
	case catalog.Rank:
		var v Rank
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if q.RankSlots > 0 && len(v.Ranked) > q.RankSlots {
			v.Ranked = v.Ranked[:q.RankSlots]
		}
		return v, nil
	case catalog.Percentage:
		var v Percentage
		err := json.Unmarshal(data, &v)
		return v, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, q.Type)
	}
}

// DecodeMap decodes raw responses against the catalog. Ids the catalog does
// not know are skipped and returned in dropped.
func DecodeMap(raw map[string]json.RawMessage, cat *catalog.Catalog) (Map, []string, error) {
	out := make(Map, len(raw))
	var dropped []string
	for id, data := range raw {
		q, ok := cat.Question(id)
		if !ok {
			dropped = append(dropped, id)
			continue
		}
		r, err := Decode(data, q)
		if err != nil {
			return nil, nil, fmt.Errorf("response %s: %w", id, err)
		}
		if r != nil {
			out[id] = r
		}
	}
	if len(dropped) > 0 {
		slices.Sort(dropped)
		slog.Warn("dropped responses for unknown questions", "ids", dropped)
	}
	return out, dropped, nil
}

func toInt(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		return clamp(int(max(min(i, 1000), -1000))), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return clamp(int(math.Round(max(min(f, 1000), -1000)))), nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dedupe(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
