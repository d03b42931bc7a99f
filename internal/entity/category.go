package entity

type Category string

const (
	Dining        Category = "dining"
	Shopping      Category = "shopping"
	Travel        Category = "travel"
	Bills         Category = "bills"
	Entertainment Category = "entertainment"
	Groceries     Category = "groceries"
	Healthcare    Category = "healthcare"
	Transport     Category = "transport"
)

func Categories() []Category {
	return []Category{
		Dining,
		Shopping,
		Travel,
		Bills,
		Entertainment,
		Groceries,
		Healthcare,
		Transport,
	}
}

func (c Category) Valid() bool {
	switch c {
	case Dining, Shopping, Travel, Bills, Entertainment, Groceries, Healthcare, Transport:
		return true
	}

	return false
}
