package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bathingculture/books/internal/money"
)

func TestAmount_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    money.Amount
		wantErr bool
	}{
		{name: "nil", src: nil, want: 0},
		{name: "float64", src: 123.45, want: 123.45},
		{name: "int64", src: int64(-7), want: -7},
		{name: "string", src: "2200.00", want: 2200},
		{name: "bytes", src: []byte("-50.5"), want: -50.5},
		{name: "garbage string", src: "not-a-number", wantErr: true},
		{name: "unsupported type", src: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a money.Amount

			err := a.Scan(tt.src)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    money.Amount
		wantErr bool
	}{
		{name: "number", payload: `{"amount": 99.9}`, want: 99.9},
		{name: "quoted number", payload: `{"amount": "-1200.50"}`, want: -1200.5},
		{name: "null", payload: `{"amount": null}`, want: 0},
		{name: "quoted garbage", payload: `{"amount": "12,00"}`, wantErr: true},
		{name: "wrong type", payload: `{"amount": [1]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Amount money.Amount `json:"amount"`
			}

			err := json.Unmarshal([]byte(tt.payload), &v)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Amount)
		})
	}
}

func TestAmount_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Amount money.Amount `json:"amount"`
	}{Amount: -42.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": -42.5}`, string(out))
}

func TestAmount_Abs(t *testing.T) {
	assert.Equal(t, money.Amount(10), money.Amount(-10).Abs())
	assert.Equal(t, money.Amount(10), money.Amount(10).Abs())
	assert.Equal(t, money.Amount(0), money.Amount(0).Abs())
}
