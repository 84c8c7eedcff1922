package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCartRecompute(t *testing.T) {
	cart := Cart{
		Customer: "customer",
		Products: []CartLine{
			{Model: "iPhone 12", Quantity: 2, Category: CategorySmartphone, Price: MoneyFromInt(200)},
			{Model: "iPhone 11", Quantity: 1, Category: CategorySmartphone, Price: MoneyFromInt(150)},
		},
	}
	cart.Recompute()
	if !cart.Total.Equal(MoneyFromInt(550)) {
		t.Fatalf("expected total 550, got %s", cart.Total)
	}

	cart.Products = cart.Products[:1]
	cart.Recompute()
	if !cart.Total.Equal(MoneyFromInt(400)) {
		t.Fatalf("expected total 400 after removing a line, got %s", cart.Total)
	}
}

func TestCartRecomputeFractionalPrices(t *testing.T) {
	price, err := ParseMoney("19.99")
	if err != nil {
		t.Fatalf("parse money: %v", err)
	}
	cart := Cart{Products: []CartLine{{Model: "m", Quantity: 3, Price: price}}}
	cart.Recompute()
	if cart.Total.String() != "59.97" {
		t.Fatalf("expected 59.97, got %s", cart.Total)
	}
}

func TestNewEmptyCartJSON(t *testing.T) {
	body, err := json.Marshal(NewEmptyCart("customer"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"customer":"customer","paid":false,"paymentDate":null,"total":0,"products":[]}`
	if string(body) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", body, want)
	}
}

func TestCartLineJSON(t *testing.T) {
	line := CartLine{Model: "iPhone 12", Quantity: 1, Category: CategorySmartphone, Price: MoneyFromInt(200)}
	body, err := json.Marshal(line)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"model":"iPhone 12","quantity":1,"category":"Smartphone","price":200}`
	if string(body) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", body, want)
	}
}

func TestMoneyUnmarshal(t *testing.T) {
	var got struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "3.333"}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.A.String() != "12.50" || got.B.String() != "3.33" {
		t.Fatalf("unexpected amounts %s %s", got.A, got.B)
	}
}

func TestCheckoutLineValidate(t *testing.T) {
	cases := []struct {
		name string
		line CheckoutLine
		want error
	}{
		{name: "enough stock", line: CheckoutLine{Model: "x", Quantity: 2, Stock: 2}},
		{name: "empty stock", line: CheckoutLine{Model: "x", Quantity: 1, Stock: 0}, want: ErrEmptyProductStock},
		{name: "low stock", line: CheckoutLine{Model: "x", Quantity: 5, Stock: 3}, want: ErrLowProductStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.line.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	if !CategoryLaptop.Valid() {
		t.Fatalf("expected Laptop to be valid")
	}
	if Category("Tablet").Valid() {
		t.Fatalf("expected Tablet to be invalid")
	}
}
