package currency

// countryFromTimezone maps an IANA timezone to a country code for clients
// whose language tag carries no region. Coverage is intentionally partial;
// unknown zones fall through to the default currency.
func countryFromTimezone(timezone string) string {
	return timezoneToCountry[timezone]
}

var timezoneToCountry = map[string]string{
	"America/New_York":    "US",
	"America/Los_Angeles": "US",
	"America/Chicago":     "US",
	"America/Denver":      "US",
	"Europe/London":       "GB",
	"Europe/Paris":        "FR",
	"Europe/Berlin":       "DE",
	"Europe/Madrid":       "ES",
	"Europe/Rome":         "IT",
	"Asia/Tokyo":          "JP",
	"Asia/Shanghai":       "CN",
	"Asia/Kolkata":        "IN",
	"Australia/Sydney":    "AU",
	"America/Toronto":     "CA",
	"America/Sao_Paulo":   "BR",
	"America/Mexico_City": "MX",
	"Asia/Seoul":          "KR",
	"Europe/Moscow":       "RU",
	"Africa/Johannesburg": "ZA",
	"Asia/Dubai":          "AE",
	"Asia/Singapore":      "SG",
	"Asia/Hong_Kong":      "HK",
	"Pacific/Auckland":    "NZ",
	"Europe/Zurich":       "CH",
	"Europe/Stockholm":    "SE",
	"Europe/Oslo":         "NO",
	"Europe/Copenhagen":   "DK",
	"Europe/Warsaw":       "PL",
	"Europe/Istanbul":     "TR",
	"Asia/Bangkok":        "TH",
	"Asia/Jakarta":        "ID",
	"Asia/Kuala_Lumpur":   "MY",
	"Asia/Manila":         "PH",
	"Asia/Ho_Chi_Minh":    "VN",
	"Asia/Karachi":        "PK",
	"Asia/Dhaka":          "BD",
	"Africa/Lagos":        "NG",
	"Africa/Cairo":        "EG",
	"Asia/Jerusalem":      "IL",
}
