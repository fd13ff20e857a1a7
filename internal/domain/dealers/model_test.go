package dealers

import "testing"

func TestDealerKey(t *testing.T) {
	middle := "S"
	d := Dealer{ID: 4, FirstName: "Ravi", MiddleName: &middle, LastName: "Kumar", CountryCode: "+91", PhoneNumber: "111"}

	k := d.Key()
	if k.FirstName != "Ravi" || k.LastName != "Kumar" || k.CountryCode != "+91" || k.PhoneNumber != "111" {
		t.Fatalf("Key() = %+v", k)
	}
	if k.MiddleName == nil || *k.MiddleName != "S" {
		t.Fatalf("middle name lost: %v", k.MiddleName)
	}

	norm, err := k.Normalize()
	if err != nil {
		t.Fatalf("key of a stored dealer must be valid: %v", err)
	}
	if norm.FirstName != k.FirstName || *norm.MiddleName != middle {
		t.Fatalf("Normalize changed key: %+v", norm)
	}
}
