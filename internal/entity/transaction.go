package entity

import (
	"fmt"
	"strconv"

	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

// Wire field names of a log entry. All values are string-encoded on the wire
// and decoded once, right after claim, before any sink sees the event.
const (
	FieldTransactionID = "transactionId"
	FieldCustomerID    = "customerId"
	FieldAmount        = "amount"
	FieldMerchant      = "merchant"
	FieldCategory      = "category"
	FieldTimestamp     = "timestamp"
	FieldLocation      = "location"
	FieldCardLast4     = "cardLast4"
)

type Transaction struct {
	TransactionID string   `json:"transactionId"`
	CustomerID    string   `json:"customerId"`
	Amount        float64  `json:"amount"`
	Merchant      string   `json:"merchant"`
	Category      Category `json:"category"`
	Timestamp     int64    `json:"timestamp"` // event time, unix ms
	Location      string   `json:"location"`
	CardLast4     string   `json:"cardLast4"`
}

func (t *Transaction) WireValues() map[string]interface{} {
	return map[string]interface{}{
		FieldTransactionID: t.TransactionID,
		FieldCustomerID:    t.CustomerID,
		FieldAmount:        strconv.FormatFloat(t.Amount, 'f', 2, 64),
		FieldMerchant:      t.Merchant,
		FieldCategory:      string(t.Category),
		FieldTimestamp:     strconv.FormatInt(t.Timestamp, 10),
		FieldLocation:      t.Location,
		FieldCardLast4:     t.CardLast4,
	}
}

// ParseTransaction decodes the flat string map claimed from the event log.
func ParseTransaction(values map[string]interface{}) (*Transaction, error) {
	txID, err := stringField(values, FieldTransactionID)
	if err != nil {
		return nil, err
	}

	customerID, err := stringField(values, FieldCustomerID)
	if err != nil {
		return nil, err
	}

	merchant, err := stringField(values, FieldMerchant)
	if err != nil {
		return nil, err
	}

	rawCategory, err := stringField(values, FieldCategory)
	if err != nil {
		return nil, err
	}

	category := Category(rawCategory)
	if !category.Valid() {
		return nil, fmt.Errorf("entity - ParseTransaction - category %q: %w", rawCategory, errs.ErrMalformedEvent)
	}

	rawAmount, err := stringField(values, FieldAmount)
	if err != nil {
		return nil, err
	}

	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("entity - ParseTransaction - amount %q: %w", rawAmount, errs.ErrMalformedEvent)
	}

	rawTimestamp, err := stringField(values, FieldTimestamp)
	if err != nil {
		return nil, err
	}

	timestamp, err := strconv.ParseInt(rawTimestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("entity - ParseTransaction - timestamp %q: %w", rawTimestamp, errs.ErrMalformedEvent)
	}

	location, err := stringField(values, FieldLocation)
	if err != nil {
		return nil, err
	}

	cardLast4, err := stringField(values, FieldCardLast4)
	if err != nil {
		return nil, err
	}
	if len(cardLast4) != 4 {
		return nil, fmt.Errorf("entity - ParseTransaction - cardLast4 %q: %w", cardLast4, errs.ErrMalformedEvent)
	}

	return &Transaction{
		TransactionID: txID,
		CustomerID:    customerID,
		Amount:        amount,
		Merchant:      merchant,
		Category:      category,
		Timestamp:     timestamp,
		Location:      location,
		CardLast4:     cardLast4,
	}, nil
}

func stringField(values map[string]interface{}, field string) (string, error) {
	raw, ok := values[field]
	if !ok {
		return "", fmt.Errorf("entity - ParseTransaction - missing field %q: %w", field, errs.ErrMalformedEvent)
	}

	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("entity - ParseTransaction - empty field %q: %w", field, errs.ErrMalformedEvent)
	}

	return s, nil
}
