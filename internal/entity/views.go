package entity

// Derived-view read shapes.

type CategoryTotal struct {
	Category Category
	Total    float64
}

type MerchantTotal struct {
	Merchant string
	Total    float64
}

type Sample struct {
	Timestamp int64
	Amount    float64
}

type VectorHit struct {
	Transaction Transaction
	Similarity  float64
}
