package classifier

import "regexp"

var defaultCategories = []Category{
	{
		Name:     "Food & Dining",
		Keywords: []string{"swiggy", "zomato", "restaurant", "food", "dining", "cafe", "hotel", "milk", "burger", "pizza"},
		SubCategories: []SubCategory{
			{Name: "Restaurant", Keywords: []string{"restaurant", "dining", "cafe"}},
			{Name: "Food Delivery", Keywords: []string{"swiggy", "zomato"}},
			{Name: "Groceries", Keywords: []string{"grocery", "supermarket", "market", "vegetables", "fruits"}},
		},
	},
	{
		Name:     "Shopping",
		Keywords: []string{"amazon", "flipkart", "myntra", "retail", "mart", "shop", "store", "market"},
		SubCategories: []SubCategory{
			{Name: "Online Shopping", Keywords: []string{"amazon", "flipkart", "myntra"}},
			{Name: "Retail", Keywords: []string{"retail", "mart", "store"}},
			{Name: "Fashion", Keywords: []string{"clothing", "apparel", "fashion"}},
		},
	},
	{
		Name:     "Transportation",
		Keywords: []string{"uber", "ola", "petrol", "fuel", "metro", "bus", "train", "transport"},
		SubCategories: []SubCategory{
			{Name: "Ride Sharing", Keywords: []string{"uber", "ola"}},
			{Name: "Fuel", Keywords: []string{"petrol", "fuel", "gas"}},
			{Name: "Public Transport", Keywords: []string{"metro", "bus", "train"}},
		},
	},
	{
		Name:     "Bills & Utilities",
		Keywords: []string{"airtel", "jio", "vodafone", "electricity", "water", "gas", "bill", "recharge"},
		SubCategories: []SubCategory{
			{Name: "Mobile", Keywords: []string{"airtel", "jio", "vodafone", "phone"}},
			{Name: "Utilities", Keywords: []string{"electricity", "water", "gas"}},
			{Name: "Internet", Keywords: []string{"broadband", "wifi", "internet"}},
		},
	},
}

var defaultPatterns = []Pattern{
	{Expr: regexp.MustCompile(`\d+\s*rs`), Category: "Payment"},
	{Expr: regexp.MustCompile(`transfer\s+to`), Category: "Transfer"},
	{Expr: regexp.MustCompile(`received\s+from`), Category: "Income"},
	{Expr: regexp.MustCompile(`salary`), Category: "Income - Salary"},
	{Expr: regexp.MustCompile(`rent`), Category: "Housing - Rent"},
	{Expr: regexp.MustCompile(`emi`), Category: "Finance - EMI"},
	{Expr: regexp.MustCompile(`investment`), Category: "Investment"},
	{Expr: regexp.MustCompile(`insurance`), Category: "Insurance"},
	{Expr: regexp.MustCompile(`medical|health|hospital`), Category: "Healthcare"},
	{Expr: regexp.MustCompile(`education|school|college`), Category: "Education"},
}
