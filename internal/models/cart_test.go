package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCart(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]string
		want    Cart
		wantErr bool
	}{
		{
			name: "valid cart",
			raw:  map[string]string{"5": "3", "12": "1"},
			want: Cart{5: 3, 12: 1},
		},
		{
			name: "empty cart",
			raw:  map[string]string{},
			want: Cart{},
		},
		{
			name: "whitespace is tolerated",
			raw:  map[string]string{" 7 ": " 2"},
			want: Cart{7: 2},
		},
		{
			name:    "non-numeric movie id",
			raw:     map[string]string{"abc": "1"},
			wantErr: true,
		},
		{
			name:    "zero movie id",
			raw:     map[string]string{"0": "1"},
			wantErr: true,
		},
		{
			name:    "non-numeric quantity",
			raw:     map[string]string{"5": "many"},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			raw:     map[string]string{"5": "0"},
			wantErr: true,
		},
		{
			name:    "quantity over the cap",
			raw:     map[string]string{"5": "101"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCart(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCart() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCart_EncodeRoundTrip(t *testing.T) {
	cart := Cart{5: 3, 9: 1}

	encoded := cart.Encode()
	if encoded["5"] != "3" || encoded["9"] != "1" {
		t.Fatalf("Encode() = %v", encoded)
	}

	decoded, err := ParseCart(encoded)
	if err != nil {
		t.Fatalf("ParseCart() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, cart) {
		t.Errorf("round trip = %v, want %v", decoded, cart)
	}
}

func TestCart_SetAndRemove(t *testing.T) {
	cart := NewCart()

	if err := cart.Set(5, 2); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cart.Set(5, 4); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cart[5] != 4 {
		t.Errorf("Set() should overwrite quantity, got %d", cart[5])
	}

	err := cart.Set(6, 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Set() with zero quantity error = %v, want ErrInvalidInput", err)
	}
	if _, ok := cart[6]; ok {
		t.Error("invalid quantity should not be stored")
	}

	cart.Remove(5)
	if !cart.IsEmpty() {
		t.Errorf("cart should be empty after Remove, got %v", cart)
	}
}

func TestCart_MovieIDs(t *testing.T) {
	cart := Cart{12: 1, 3: 2, 7: 1}
	want := []int{3, 7, 12}
	if got := cart.MovieIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("MovieIDs() = %v, want %v", got, want)
	}
}
