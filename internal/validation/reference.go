package validation

type CountryCode struct {
	Code     string `json:"code"`
	DialCode string `json:"dialCode"`
	Name     string `json:"name"`
}

// States lists Indian states and union territories offered by the
// registration form. OtherState is appended by the form itself.
var States = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Andaman and Nicobar Islands",
	"Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi",
	"Jammu and Kashmir",
	"Ladakh",
	"Lakshadweep",
	"Puducherry",
}

var CountryCodes = []CountryCode{
	{Code: "IN", DialCode: "+91", Name: "India"},
	{Code: "US", DialCode: "+1", Name: "United States"},
	{Code: "GB", DialCode: "+44", Name: "United Kingdom"},
	{Code: "AE", DialCode: "+971", Name: "United Arab Emirates"},
	{Code: "AU", DialCode: "+61", Name: "Australia"},
	{Code: "CA", DialCode: "+1", Name: "Canada"},
	{Code: "SG", DialCode: "+65", Name: "Singapore"},
	{Code: "MY", DialCode: "+60", Name: "Malaysia"},
	{Code: "DE", DialCode: "+49", Name: "Germany"},
	{Code: "FR", DialCode: "+33", Name: "France"},
	{Code: "NZ", DialCode: "+64", Name: "New Zealand"},
	{Code: "SA", DialCode: "+966", Name: "Saudi Arabia"},
	{Code: "QA", DialCode: "+974", Name: "Qatar"},
	{Code: "KW", DialCode: "+965", Name: "Kuwait"},
	{Code: "OM", DialCode: "+968", Name: "Oman"},
	{Code: "BH", DialCode: "+973", Name: "Bahrain"},
}
