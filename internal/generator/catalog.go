package generator

import "github.com/ichbintonywu/transaction-processor/internal/entity"

// Merchant names per category, so generated events look like a real card
// feed.
var merchants = map[entity.Category][]string{
	entity.Dining: {
		"Starbucks", "Chipotle", "McDonald's", "Subway", "Pizza Hut",
		"Domino's", "Panera Bread", "Chick-fil-A", "Taco Bell", "Olive Garden",
		"Five Guys", "Shake Shack", "In-N-Out Burger", "Wendy's",
	},
	entity.Shopping: {
		"Amazon", "Target", "Walmart", "Best Buy", "Home Depot",
		"Macy's", "Costco", "Apple Store", "Nike", "IKEA",
		"Nordstrom", "Lowe's", "Gap", "Zara", "Sephora", "REI",
	},
	entity.Travel: {
		"United Airlines", "Delta", "Marriott", "Hilton", "Airbnb",
		"Uber", "Lyft", "Hertz", "Southwest Airlines", "Expedia",
		"American Airlines", "JetBlue", "Hyatt", "Booking.com",
	},
	entity.Bills: {
		"AT&T", "Verizon", "Comcast", "Con Edison", "Netflix",
		"Spotify", "Hulu", "AWS", "Adobe", "Google Cloud",
		"T-Mobile", "PG&E", "Disney+", "Dropbox",
	},
	entity.Entertainment: {
		"AMC Theaters", "Xbox", "PlayStation", "Steam", "Nintendo",
		"Ticketmaster", "Live Nation", "Regal Cinemas", "Cinemark",
		"Dave & Buster's", "Top Golf", "Six Flags", "Universal Studios",
	},
	entity.Groceries: {
		"Whole Foods", "Trader Joe's", "Safeway", "Kroger", "Publix",
		"Wegmans", "Aldi", "ShopRite", "Food Lion", "Albertsons",
		"Sprouts", "Fresh Market", "H-E-B",
	},
	entity.Healthcare: {
		"CVS Pharmacy", "Walgreens", "LabCorp", "Quest Diagnostics",
		"Kaiser Permanente", "Blue Cross", "UnitedHealthcare",
		"Rite Aid", "Minute Clinic", "Urgent Care", "Vision Center",
	},
	entity.Transport: {
		"Shell", "BP", "Chevron", "Exxon", "Mobil",
		"Metro Transit", "NYC Subway", "MTA", "BART", "Amtrak",
		"Greyhound", "Sunoco", "Speedway", "Wawa",
	},
}

// Typical amount range per category, in USD.
var amountRanges = map[entity.Category][2]float64{
	entity.Dining:        {5.00, 75.00},
	entity.Shopping:      {10.00, 500.00},
	entity.Travel:        {50.00, 1200.00},
	entity.Bills:         {15.00, 300.00},
	entity.Entertainment: {10.00, 150.00},
	entity.Groceries:     {20.00, 200.00},
	entity.Healthcare:    {25.00, 500.00},
	entity.Transport:     {15.00, 100.00},
}

var locations = []string{
	"New York, NY", "Los Angeles, CA", "Chicago, IL", "Houston, TX",
	"Phoenix, AZ", "Philadelphia, PA", "San Antonio, TX", "San Diego, CA",
	"Dallas, TX", "San Jose, CA", "Austin, TX", "Seattle, WA",
	"Denver, CO", "Boston, MA", "Portland, OR", "Atlanta, GA",
	"Miami, FL", "Las Vegas, NV", "Detroit, MI", "Nashville, TN",
	"Charlotte, NC", "San Francisco, CA", "Minneapolis, MN",
	"Washington, DC", "Tampa, FL", "Orlando, FL", "Cleveland, OH",
}
