package models

import "testing"

func TestBeforeCreateAssignsIDs(t *testing.T) {
	inv := &Invoice{}
	if err := inv.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if len(inv.ID) != 36 {
		t.Errorf("expected uuid id, got %q", inv.ID)
	}

	it := &Item{ID: "keep-me"}
	if err := it.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if it.ID != "keep-me" {
		t.Errorf("existing id overwritten: %q", it.ID)
	}
}

func TestAddress_FullAddress(t *testing.T) {
	tests := []struct {
		name    string
		address Address
		want    string
	}{
		{
			name: "full address",
			address: Address{
				Street:     "Main Street 1",
				PostalCode: "00-001",
				City:       "Warsaw",
				Country:    "Poland",
			},
			want: "Main Street 1\n00-001 Warsaw\nPoland",
		},
		{
			name:    "only city",
			address: Address{City: "Krakow"},
			want:    "Krakow",
		},
		{
			name:    "empty",
			address: Address{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.address.FullAddress(); got != tt.want {
				t.Errorf("FullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
