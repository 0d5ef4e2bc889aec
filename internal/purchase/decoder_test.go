package purchase

import (
	"errors"
	"math"
	"testing"
)

func TestDecodeValidLines(t *testing.T) {
	cases := []struct {
		line  string
		want  Record
		total float64
	}{
		{"2025-09-01;food;Milk;1.20;2", Record{Date: "2025-09-01", Category: "food", Name: "Milk", Price: 1.2, Quantity: 2}, 2.4},
		{"2025-09-01;transport;Bus;1.50;4", Record{Date: "2025-09-01", Category: "transport", Name: "Bus", Price: 1.5, Quantity: 4}, 6},
		{"  2025-09-03 ; food ; Cheese ; 3.75 ; 1  \n", Record{Date: "2025-09-03", Category: "food", Name: "Cheese", Price: 3.75, Quantity: 1}, 3.75},
		{"2025-09-05;gifts;Sample;;3", Record{Date: "2025-09-05", Category: "gifts", Name: "Sample", Price: 0, Quantity: 3}, 0},
		{"2025-09-05;food;Flour;0;0.5", Record{Date: "2025-09-05", Category: "food", Name: "Flour", Price: 0, Quantity: 0.5}, 0},
		{"2025-99-99;misc;Odd date;1;1", Record{Date: "2025-99-99", Category: "misc", Name: "Odd date", Price: 1, Quantity: 1}, 1},
		{"abcd-ef-gh;misc;Shape only;2;1", Record{Date: "abcd-ef-gh", Category: "misc", Name: "Shape only", Price: 2, Quantity: 1}, 2},
		{"2025-09-06;;No category;2;2", Record{Date: "2025-09-06", Category: "", Name: "No category", Price: 2, Quantity: 2}, 4},
		{"2025-09-06;home;Sofa;1_000.50;1", Record{Date: "2025-09-06", Category: "home", Name: "Sofa", Price: 1000.5, Quantity: 1}, 1000.5},
		{"2025-09-06;home;Nails;+2.5e-1;4", Record{Date: "2025-09-06", Category: "home", Name: "Nails", Price: 0.25, Quantity: 4}, 1},
		{"2025-09-06\r;food;Tea;.5;2.", Record{Date: "2025-09-06", Category: "food", Name: "Tea", Price: 0.5, Quantity: 2}, 1},
	}

	for _, tc := range cases {
		got, err := Decode(tc.line)
		if err != nil {
			t.Fatalf("%q: unexpected rejection: %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %+v, want %+v", tc.line, got, tc.want)
		}
		if got.Total() != tc.total {
			t.Fatalf("%q: total got %v, want %v", tc.line, got.Total(), tc.total)
		}
		if got.Total() != got.Price*got.Quantity {
			t.Fatalf("%q: total %v is not price*quantity", tc.line, got.Total())
		}
	}
}

func TestDecodeRejectsMalformedLines(t *testing.T) {
	cases := []struct {
		line   string
		reason error
	}{
		{"", ErrBlankLine},
		{"   \t  ", ErrBlankLine},
		{"\n", ErrBlankLine},
		{"2025-09-01;food;Bread;0.85", ErrFieldCount},
		{"2025-09-02;transport;Bus;abc;4;extra", ErrFieldCount},
		{"bad format", ErrFieldCount},
		{"2025/09/01;food;Milk;1;1", ErrDateFormat},
		{"2025-9-1;food;Milk;1;1", ErrDateFormat},
		{"2025-09-011;food;Milk;1;1", ErrDateFormat},
		{";food;Milk;1;1", ErrDateFormat},
		{"2025-09-02;transport;Bus;abc;4", ErrPriceFormat},
		{"2025-09-02;transport;Bus;1,50;4", ErrPriceFormat},
		{"2025-09-02;transport;Bus;0x10;4", ErrPriceFormat},
		{"2025-09-02;transport;Bus;nan;4", ErrPriceFormat},
		{"2025-09-02;transport;Bus;-inf;4", ErrNegativePrice},
		{"2025-09-02;transport;Bus;-1e400;4", ErrNegativePrice},
		{"2025-09-02;transport;Bus;1__0;4", ErrPriceFormat},
		{"2025-09-02;transport;Bus;_10;4", ErrPriceFormat},
		{"2025-09-02;transport;Bus;1.5;four", ErrQuantityFormat},
		{"2025-09-02;transport;Bus;1.5;NaN", ErrQuantityFormat},
		{"2025-09-04;food;Eggs;-2.50;1", ErrNegativePrice},
		{"2025-09-04;food;Eggs;2.50;-1", ErrNonPositiveQuantity},
		{"2025-09-04;food;Eggs;2.50;0", ErrNonPositiveQuantity},
		{"2025-09-04;food;Eggs;2.50;", ErrNonPositiveQuantity},
		{"2025-09-04;food;Eggs;2.50;   ", ErrNonPositiveQuantity},
	}

	for _, tc := range cases {
		got, err := Decode(tc.line)
		if err == nil {
			t.Fatalf("%q: expected rejection, got %+v", tc.line, got)
		}
		if !errors.Is(err, tc.reason) {
			t.Fatalf("%q: got reason %v, want %v", tc.line, err, tc.reason)
		}
		var rejectErr *RejectError
		if !errors.As(err, &rejectErr) {
			t.Fatalf("%q: expected *RejectError, got %T", tc.line, err)
		}
		if got != (Record{}) {
			t.Fatalf("%q: rejected line produced a record: %+v", tc.line, got)
		}
	}
}

func TestDecodeInfiniteAmounts(t *testing.T) {
	cases := []struct {
		line     string
		price    float64
		quantity float64
	}{
		{"2025-09-02;transport;Bus;inf;4", math.Inf(1), 4},
		{"2025-09-02;transport;Bus;Infinity;4", math.Inf(1), 4},
		{"2025-09-02;transport;Bus;1e400;4", math.Inf(1), 4},
		{"2025-09-02;transport;Bus;1.5;+inf", 1.5, math.Inf(1)},
		{"2025-09-02;transport;Bus;1e-400;1", 0, 1},
	}

	for _, tc := range cases {
		got, err := Decode(tc.line)
		if err != nil {
			t.Fatalf("%q: unexpected rejection: %v", tc.line, err)
		}
		if got.Price != tc.price || got.Quantity != tc.quantity {
			t.Errorf("%q: got price=%v qty=%v, want %v/%v", tc.line, got.Price, got.Quantity, tc.price, tc.quantity)
		}
	}
}

func TestDecodePriceCheckedBeforeQuantity(t *testing.T) {
	_, err := Decode("2025-09-04;food;Eggs;abc;-1")
	if !errors.Is(err, ErrPriceFormat) {
		t.Fatalf("got %v, want %v", err, ErrPriceFormat)
	}

	_, err = Decode("2025-09-04;food;Eggs;-1;xyz")
	if !errors.Is(err, ErrQuantityFormat) {
		t.Fatalf("got %v, want %v", err, ErrQuantityFormat)
	}
}

func TestRejectErrorMessage(t *testing.T) {
	_, err := Decode("2025-09-02;transport;Bus;abc;4")
	want := "price: price is not a number (value: 'abc')"
	if err.Error() != want {
		t.Errorf("message: got %q, want %q", err.Error(), want)
	}

	_, err = Decode("")
	if err.Error() != "line: blank line" {
		t.Errorf("message: got %q, want %q", err.Error(), "line: blank line")
	}
}

func TestRecordTotal(t *testing.T) {
	r := Record{Price: 2.5, Quantity: 4}
	if r.Total() != 10 {
		t.Errorf("Total: got %v, want 10", r.Total())
	}
}
