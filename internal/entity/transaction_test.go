package entity_test

import (
	"errors"
	"testing"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

func validValues() map[string]interface{} {
	return map[string]interface{}{
		"transactionId": "tx_1",
		"customerId":    "cust_042",
		"amount":        "12.50",
		"merchant":      "Starbucks",
		"category":      "dining",
		"timestamp":     "1000",
		"location":      "Dallas, TX",
		"cardLast4":     "4242",
	}
}

func TestParseTransaction(t *testing.T) {
	tx, err := entity.ParseTransaction(validValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.TransactionID != "tx_1" {
		t.Errorf("TransactionID = %q, want tx_1", tx.TransactionID)
	}
	if tx.Amount != 12.50 {
		t.Errorf("Amount = %v, want 12.50", tx.Amount)
	}
	if tx.Category != entity.Dining {
		t.Errorf("Category = %q, want dining", tx.Category)
	}
	if tx.Timestamp != 1000 {
		t.Errorf("Timestamp = %d, want 1000", tx.Timestamp)
	}
}

func TestParseTransactionRoundTrip(t *testing.T) {
	original, err := entity.ParseTransaction(validValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := entity.ParseTransaction(original.WireValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *decoded != *original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestParseTransactionMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing transactionId", func(v map[string]interface{}) { delete(v, "transactionId") }},
		{"empty merchant", func(v map[string]interface{}) { v["merchant"] = "" }},
		{"unknown category", func(v map[string]interface{}) { v["category"] = "gambling" }},
		{"negative amount", func(v map[string]interface{}) { v["amount"] = "-1.00" }},
		{"non-numeric amount", func(v map[string]interface{}) { v["amount"] = "lots" }},
		{"non-numeric timestamp", func(v map[string]interface{}) { v["timestamp"] = "yesterday" }},
		{"short cardLast4", func(v map[string]interface{}) { v["cardLast4"] = "42" }},
		{"non-string value", func(v map[string]interface{}) { v["amount"] = 12.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validValues()
			tt.mutate(values)

			_, err := entity.ParseTransaction(values)
			if !errors.Is(err, errs.ErrMalformedEvent) {
				t.Errorf("err = %v, want ErrMalformedEvent", err)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range entity.Categories() {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}

	if entity.Category("gambling").Valid() {
		t.Error("category gambling should be invalid")
	}
}
