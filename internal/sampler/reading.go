package sampler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Reading is the outcome of one Sample call. It either carries a number
// (integer unless IsFloat) or a Reason explaining why no value exists.
type Reading struct {
	Monitor    string
	Kind       Kind
	Format     Format
	Int        int64
	Float      float64
	IsFloat    bool
	Warmup     bool
	Reason     string
	RecordedAt time.Time

	err error
}

func (r Reading) Available() bool {
	return r.Reason == ""
}

// Err returns nil for readings with a value. For unavailable readings it
// wraps ErrUnavailable and, when known, the underlying cause.
func (r Reading) Err() error {
	if r.Available() {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, r.Reason)
}

// Number returns the value as a float64 regardless of its representation.
func (r Reading) Number() float64 {
	if r.IsFloat {
		return r.Float
	}
	return float64(r.Int)
}

func (r Reading) String() string {
	if !r.Available() {
		return r.Reason
	}
	if r.IsFloat {
		return strconv.FormatFloat(r.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(r.Int, 10)
}

type readingJSON struct {
	Monitor    string    `json:"monitor,omitempty"`
	Kind       Kind      `json:"kind"`
	Format     Format    `json:"format"`
	Value      any       `json:"value"`
	Warmup     bool      `json:"warmup,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (r Reading) MarshalJSON() ([]byte, error) {
	out := readingJSON{
		Monitor:    r.Monitor,
		Kind:       r.Kind,
		Format:     r.Format,
		Warmup:     r.Warmup,
		Reason:     r.Reason,
		RecordedAt: r.RecordedAt,
	}

	switch {
	case !r.Available():
		out.Value = nil
	case r.IsFloat:
		out.Value = r.Float
	default:
		out.Value = r.Int
	}

	return json.Marshal(out)
}
