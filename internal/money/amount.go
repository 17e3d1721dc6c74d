// Package money holds the scalar amount type shared by the ledger and the
// banking API client. Amounts are plain floating-point currency units; the
// type exists so numeric-as-string values coming out of the data layer or a
// JSON payload are coerced once, at the boundary, instead of leaking into
// the aggregation math.
package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Amount float64

// Scan accepts the representations Postgres drivers hand back for NUMERIC
// columns: float64, int64, string, or raw bytes.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = 0
		return nil
	case float64:
		*a = Amount(v)
		return nil
	case int64:
		*a = Amount(v)
		return nil
	case string:
		return a.parse(v)
	case []byte:
		return a.parse(string(v))
	default:
		return fmt.Errorf("money: cannot scan %T into Amount", src)
	}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return a.parse(s)
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("money: invalid amount %s", data)
	}

	*a = Amount(f)

	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}

func (a *Amount) parse(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: parsing amount %q: %w", s, err)
	}

	*a = Amount(f)

	return nil
}

func (a Amount) Float() float64 { return float64(a) }

func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}

	return a
}
