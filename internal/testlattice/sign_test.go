package testlattice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hornkit/hornfix/pkg/horn"
)

func TestSignLeqCode(t *testing.T) {
	tests := []struct {
		name string
		a, b horn.Value
		want bool
	}{
		{"bottom leq anything", SignBottom, SignPos, true},
		{"anything leq top", SignNeg, SignTop, true},
		{"reflexive", SignZero, SignZero, true},
		{"incomparable", SignPos, SignNeg, false},
		{"top not leq bottom", SignTop, SignBottom, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := SignLeqCode([]horn.Value{tt.a, tt.b})
			if tt.want {
				assert.True(t, ok)
				assert.True(t, v.Equal(horn.Bool(true)))
			} else {
				assert.False(t, ok)
			}
		})
	}
}

func TestSignJoinCode(t *testing.T) {
	tests := []struct {
		name string
		a, b horn.Value
		want horn.Value
	}{
		{"identical", SignPos, SignPos, SignPos},
		{"bottom absorbed", SignBottom, SignNeg, SignNeg},
		{"incomparable goes to top", SignPos, SignNeg, SignTop},
		{"top absorbing", SignTop, SignZero, SignTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := SignJoinCode([]horn.Value{tt.a, tt.b})
			assert.True(t, ok)
			assert.True(t, v.Equal(tt.want))
		})
	}
}

func TestSignJoinCommutative(t *testing.T) {
	for _, a := range SignElements {
		for _, b := range SignElements {
			ab, _ := SignJoinCode([]horn.Value{a, b})
			ba, _ := SignJoinCode([]horn.Value{b, a})
			assert.True(t, ab.Equal(ba), "join(%s,%s) != join(%s,%s)", a, b, b, a)
		}
	}
}
