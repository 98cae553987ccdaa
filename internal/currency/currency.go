// Package currency resolves a user's display currency from locale hints and
// formats amounts with it. The resolved Info is an explicit value carried by
// the caller (typically stored on the session), never package-level state.
package currency

import (
	"fmt"
	"strings"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Info identifies a display currency and the locale used to format it.
type Info struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
	Locale string `json:"locale"`
}

// Default is used when no hint resolves to a known country.
var Default = Info{Symbol: "$", Code: "USD", Locale: "en-US"}

var byCountry = map[string]Info{
	"US": {Symbol: "$", Code: "USD", Locale: "en-US"},
	"GB": {Symbol: "£", Code: "GBP", Locale: "en-GB"},
	"EU": {Symbol: "€", Code: "EUR", Locale: "de-DE"},
	"DE": {Symbol: "€", Code: "EUR", Locale: "de-DE"},
	"FR": {Symbol: "€", Code: "EUR", Locale: "fr-FR"},
	"ES": {Symbol: "€", Code: "EUR", Locale: "es-ES"},
	"IT": {Symbol: "€", Code: "EUR", Locale: "it-IT"},
	"JP": {Symbol: "¥", Code: "JPY", Locale: "ja-JP"},
	"CN": {Symbol: "¥", Code: "CNY", Locale: "zh-CN"},
	"IN": {Symbol: "₹", Code: "INR", Locale: "en-IN"},
	"AU": {Symbol: "A$", Code: "AUD", Locale: "en-AU"},
	"CA": {Symbol: "C$", Code: "CAD", Locale: "en-CA"},
	"BR": {Symbol: "R$", Code: "BRL", Locale: "pt-BR"},
	"MX": {Symbol: "MX$", Code: "MXN", Locale: "es-MX"},
	"KR": {Symbol: "₩", Code: "KRW", Locale: "ko-KR"},
	"RU": {Symbol: "₽", Code: "RUB", Locale: "ru-RU"},
	"ZA": {Symbol: "R", Code: "ZAR", Locale: "en-ZA"},
	"AE": {Symbol: "د.إ", Code: "AED", Locale: "ar-AE"},
	"SA": {Symbol: "﷼", Code: "SAR", Locale: "ar-SA"},
	"SG": {Symbol: "S$", Code: "SGD", Locale: "en-SG"},
	"HK": {Symbol: "HK$", Code: "HKD", Locale: "zh-HK"},
	"NZ": {Symbol: "NZ$", Code: "NZD", Locale: "en-NZ"},
	"CH": {Symbol: "CHF", Code: "CHF", Locale: "de-CH"},
	"SE": {Symbol: "kr", Code: "SEK", Locale: "sv-SE"},
	"NO": {Symbol: "kr", Code: "NOK", Locale: "nb-NO"},
	"DK": {Symbol: "kr", Code: "DKK", Locale: "da-DK"},
	"PL": {Symbol: "zł", Code: "PLN", Locale: "pl-PL"},
	"TR": {Symbol: "₺", Code: "TRY", Locale: "tr-TR"},
	"TH": {Symbol: "฿", Code: "THB", Locale: "th-TH"},
	"ID": {Symbol: "Rp", Code: "IDR", Locale: "id-ID"},
	"MY": {Symbol: "RM", Code: "MYR", Locale: "ms-MY"},
	"PH": {Symbol: "₱", Code: "PHP", Locale: "en-PH"},
	"VN": {Symbol: "₫", Code: "VND", Locale: "vi-VN"},
	"PK": {Symbol: "₨", Code: "PKR", Locale: "en-PK"},
	"BD": {Symbol: "৳", Code: "BDT", Locale: "bn-BD"},
	"NG": {Symbol: "₦", Code: "NGN", Locale: "en-NG"},
	"EG": {Symbol: "E£", Code: "EGP", Locale: "ar-EG"},
	"IL": {Symbol: "₪", Code: "ILS", Locale: "he-IL"},
}

// Detect resolves the display currency from the client's language tag (e.g.
// an Accept-Language value like "en-GB,en;q=0.9"), then a timezone fallback,
// then Default. Callers cache the result for the session.
func Detect(acceptLanguage, timezone string) Info {
	if country := countryFromLanguage(acceptLanguage); country != "" {
		if info, ok := byCountry[country]; ok {
			return info
		}
	}
	if country := countryFromTimezone(timezone); country != "" {
		if info, ok := byCountry[country]; ok {
			return info
		}
	}
	return Default
}

func countryFromLanguage(acceptLanguage string) string {
	first := strings.TrimSpace(acceptLanguage)
	if i := strings.IndexAny(first, ",;"); i >= 0 {
		first = first[:i]
	}
	if first == "" {
		return ""
	}
	tag, err := language.Parse(first)
	if err != nil {
		return ""
	}
	// Region() infers a likely region for bare tags like "en" (US, low
	// confidence). Only a region the tag itself carries counts; inferred
	// ones must fall through to the timezone lookup.
	region, conf := tag.Region()
	if conf < language.High {
		return ""
	}
	return region.String()
}

// Formatter renders amounts in a fixed currency/locale.
type Formatter struct {
	info    Info
	unit    xcurrency.Unit
	printer *message.Printer
	ok      bool
}

// NewFormatter builds a formatter for the given currency. Unknown codes or
// locales degrade to plain symbol-prefix formatting rather than failing.
func NewFormatter(info Info) Formatter {
	f := Formatter{info: info}
	unit, err := xcurrency.ParseISO(info.Code)
	if err != nil {
		return f
	}
	tag, err := language.Parse(info.Locale)
	if err != nil {
		return f
	}
	f.unit = unit
	f.printer = message.NewPrinter(tag)
	f.ok = true
	return f
}

// Info returns the currency this formatter renders.
func (f Formatter) Info() Info {
	return f.info
}

// Format renders amount with the currency symbol in the formatter's locale,
// always with two fraction digits.
func (f Formatter) Format(amount float64) string {
	if !f.ok {
		return fmt.Sprintf("%s%.2f", f.info.Symbol, amount)
	}
	return f.printer.Sprintf("%v", xcurrency.NarrowSymbol(f.unit.Amount(amount)))
}
