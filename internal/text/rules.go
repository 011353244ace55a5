package text

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// The rewrite patterns come from the reference preprocessor and rely on
// lookaround assertions (e.g. a number not preceded by a letter), which the
// standard regexp package cannot express. All are compiled once at package
// init; a failed replacement (only possible via regexp2's internal match
// timeout, which is unset here) leaves the text unchanged.

var (
	reOrdinal   = regexp2.MustCompile(`(?i)\b(\d+)(st|nd|rd|th)\b`, regexp2.None)
	rePercent   = regexp2.MustCompile(`(-?[\d,]+(?:\.\d+)?)\s*%`, regexp2.None)
	reCurrency  = regexp2.MustCompile(`([$€£¥₹₩₿])\s*([\d,]+(?:\.\d+)?)\s*([KMBT])?(?![a-zA-Z\d])`, regexp2.None)
	reTime      = regexp2.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(?::\d{2})?\s*(am|pm)?\b`, regexp2.None)
	reRange     = regexp2.MustCompile(`(?<!\w)(\d+)-(\d+)(?!\w)`, regexp2.None)
	reModelVer  = regexp2.MustCompile(`\b([a-zA-Z][a-zA-Z0-9]*)-(\d[\d.]*)(?=[^\d.]|$)`, regexp2.None)
	reUnit      = regexp2.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(km|kg|mg|ml|gb|mb|kb|tb|hz|khz|mhz|ghz|mph|kph|°[cCfF]|[cCfF]°|ms|ns|µs)\b`, regexp2.None)
	reScale     = regexp2.MustCompile(`(?<![a-zA-Z])(\d+(?:\.\d+)?)\s*([KMBT])(?![a-zA-Z\d])`, regexp2.None)
	reSci       = regexp2.MustCompile(`(?<![a-zA-Z\d])(-?\d+(?:\.\d+)?)[eE]([+-]?\d+)(?![a-zA-Z\d])`, regexp2.None)
	reFraction  = regexp2.MustCompile(`\b(\d+)\s*/\s*(\d+)\b`, regexp2.None)
	reDecade    = regexp2.MustCompile(`\b(\d{1,3})0s\b`, regexp2.None)
	reLeadDec   = regexp2.MustCompile(`(?<!\d)\.(\d)`, regexp2.None)
	reNegLead   = regexp2.MustCompile(`(?<!\d)(-)\.(\d)`, regexp2.None)
	reNumber    = regexp2.MustCompile(`(?<![a-zA-Z])-?[\d,]+(?:\.\d+)?`, regexp2.None)
	reIP        = regexp2.MustCompile(`\b(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})\b`, regexp2.None)
	rePhone11   = regexp2.MustCompile(`(?<!\d-)\b(\d{1,2})-(\d{3})-(\d{3})-(\d{4})\b(?!-\d)`, regexp2.None)
	rePhone10   = regexp2.MustCompile(`(?<!\d-)\b(\d{3})-(\d{3})-(\d{4})\b(?!-\d)`, regexp2.None)
	rePhone7    = regexp2.MustCompile(`(?<!\d-)\b(\d{3})-(\d{4})\b(?!-\d)`, regexp2.None)
	reURL       = regexp2.MustCompile(`https?://\S+|www\.\S+`, regexp2.None)
	reEmail     = regexp2.MustCompile(`(?i)\b[\w.+-]+@[\w-]+\.[a-z]{2,}\b`, regexp2.None)
	reHTML      = regexp2.MustCompile(`<[^>]+>`, regexp2.None)
	reSpaces    = regexp2.MustCompile(`\s+`, regexp2.None)
	rePunct     = regexp2.MustCompile(`[^\w\s]`, regexp2.None)
)

// Contraction rewrites: irregular forms first, then the generic suffix rules.
var contractionRules = []struct {
	re          *regexp2.Regexp
	replacement string
}{
	{regexp2.MustCompile(`(?i)\bcan't\b`, regexp2.None), "cannot"},
	{regexp2.MustCompile(`(?i)\bwon't\b`, regexp2.None), "will not"},
	{regexp2.MustCompile(`(?i)\bshan't\b`, regexp2.None), "shall not"},
	{regexp2.MustCompile(`(?i)\bain't\b`, regexp2.None), "is not"},
	{regexp2.MustCompile(`(?i)\blet's\b`, regexp2.None), "let us"},
	{regexp2.MustCompile(`(?i)\bit's\b`, regexp2.None), "it is"},
	{regexp2.MustCompile(`(?i)\b(\w+)n't\b`, regexp2.None), "$1 not"},
	{regexp2.MustCompile(`(?i)\b(\w+)'re\b`, regexp2.None), "$1 are"},
	{regexp2.MustCompile(`(?i)\b(\w+)'ve\b`, regexp2.None), "$1 have"},
	{regexp2.MustCompile(`(?i)\b(\w+)'ll\b`, regexp2.None), "$1 will"},
	{regexp2.MustCompile(`(?i)\b(\w+)'d\b`, regexp2.None), "$1 would"},
	{regexp2.MustCompile(`(?i)\b(\w+)'m\b`, regexp2.None), "$1 am"},
}

func replaceAll(re *regexp2.Regexp, text, replacement string) string {
	out, err := re.Replace(text, replacement, -1, -1)
	if err != nil {
		return text
	}
	return out
}

func replaceAllFunc(re *regexp2.Regexp, text string, fn func(m regexp2.Match) string) string {
	out, err := re.ReplaceFunc(text, func(m regexp2.Match) string { return fn(m) }, -1, -1)
	if err != nil {
		return text
	}
	return out
}

func group(m regexp2.Match, i int) string {
	g := m.GroupByNumber(i)
	if g == nil {
		return ""
	}
	return g.String()
}

func groupPresent(m regexp2.Match, i int) bool {
	g := m.GroupByNumber(i)
	return g != nil && len(g.Captures) > 0
}

func currencyName(symbol string) string {
	switch symbol {
	case "$":
		return "dollar"
	case "€":
		return "euro"
	case "£":
		return "pound"
	case "¥":
		return "yen"
	case "₹":
		return "rupee"
	case "₩":
		return "won"
	case "₿":
		return "bitcoin"
	}
	return ""
}

func scaleWord(suffix string) string {
	switch suffix {
	case "K":
		return "thousand"
	case "M":
		return "million"
	case "B":
		return "billion"
	case "T":
		return "trillion"
	}
	return ""
}

var unitNames = map[string]string{
	"km":  "kilometers",
	"kg":  "kilograms",
	"mg":  "milligrams",
	"ml":  "milliliters",
	"gb":  "gigabytes",
	"mb":  "megabytes",
	"kb":  "kilobytes",
	"tb":  "terabytes",
	"hz":  "hertz",
	"khz": "kilohertz",
	"mhz": "megahertz",
	"ghz": "gigahertz",
	"mph": "miles per hour",
	"kph": "kilometers per hour",
	"ms":  "milliseconds",
	"ns":  "nanoseconds",
	"µs":  "microseconds",
	"°c":  "degrees Celsius",
	"c°":  "degrees Celsius",
	"°f":  "degrees Fahrenheit",
	"f°":  "degrees Fahrenheit",
}

// numericWords converts a raw numeric string (commas already stripped) to
// words, choosing decimal or integer reading.
func numericWords(raw string) string {
	if strings.Contains(raw, ".") {
		return FloatToWords(raw)
	}
	n, _ := strconv.ParseInt(raw, 10, 64)
	return NumberToWords(n)
}

func expandOrdinals(text string) string {
	return replaceAllFunc(reOrdinal, text, func(m regexp2.Match) string {
		n, _ := strconv.ParseInt(group(m, 1), 10, 64)
		return ordinalWords(n)
	})
}

func expandPercentages(text string) string {
	return replaceAllFunc(rePercent, text, func(m regexp2.Match) string {
		raw := strings.ReplaceAll(group(m, 1), ",", "")
		return numericWords(raw) + " percent"
	})
}

func expandCurrency(text string) string {
	return replaceAllFunc(reCurrency, text, func(m regexp2.Match) string {
		unit := currencyName(group(m, 1))
		raw := strings.ReplaceAll(group(m, 2), ",", "")

		if groupPresent(m, 3) {
			// "$1.5M" reads "one point five million dollars".
			return numericWords(raw) + " " + scaleWord(group(m, 3)) + " " + unit + "s"
		}

		if dot := strings.IndexByte(raw, '.'); dot >= 0 {
			intPart, _ := strconv.ParseInt(raw[:dot], 10, 64)
			decStr := raw[dot+1:]
			if len(decStr) > 2 {
				decStr = decStr[:2]
			}
			for len(decStr) < 2 {
				decStr += "0"
			}
			decVal, _ := strconv.ParseInt(decStr, 10, 64)

			result := NumberToWords(intPart)
			if unit != "" {
				result += " " + unit + "s"
			}
			if decVal > 0 {
				plural := "s"
				if decVal == 1 {
					plural = ""
				}
				result += " and " + NumberToWords(decVal) + " cent" + plural
			}
			return result
		}

		val, _ := strconv.ParseInt(raw, 10, 64)
		words := NumberToWords(val)
		if unit == "" {
			return words
		}
		plural := "s"
		if val == 1 {
			plural = ""
		}
		return words + " " + unit + plural
	})
}

func expandTime(text string) string {
	return replaceAllFunc(reTime, text, func(m regexp2.Match) string {
		h, _ := strconv.ParseInt(group(m, 1), 10, 64)
		mins, _ := strconv.ParseInt(group(m, 2), 10, 64)

		suffix := ""
		hasMeridiem := groupPresent(m, 3)
		if hasMeridiem {
			suffix = " " + strings.ToLower(group(m, 3))
		}

		hWords := NumberToWords(h)
		switch {
		case mins == 0 && hasMeridiem:
			return hWords + suffix
		case mins == 0:
			return hWords + " hundred"
		case mins < 10:
			return hWords + " oh " + NumberToWords(mins) + suffix
		default:
			return hWords + " " + NumberToWords(mins) + suffix
		}
	})
}

func expandRanges(text string) string {
	return replaceAllFunc(reRange, text, func(m regexp2.Match) string {
		lo, _ := strconv.ParseInt(group(m, 1), 10, 64)
		hi, _ := strconv.ParseInt(group(m, 2), 10, 64)
		return NumberToWords(lo) + " to " + NumberToWords(hi)
	})
}

func expandModelNames(text string) string {
	return replaceAllFunc(reModelVer, text, func(m regexp2.Match) string {
		return group(m, 1) + " " + group(m, 2)
	})
}

func expandUnits(text string) string {
	return replaceAllFunc(reUnit, text, func(m regexp2.Match) string {
		unit := group(m, 2)
		expanded, ok := unitNames[strings.ToLower(unit)]
		if !ok {
			expanded = unit
		}
		return numericWords(group(m, 1)) + " " + expanded
	})
}

func expandScaleSuffixes(text string) string {
	return replaceAllFunc(reScale, text, func(m regexp2.Match) string {
		return numericWords(group(m, 1)) + " " + scaleWord(group(m, 2))
	})
}

func expandScientificNotation(text string) string {
	return replaceAllFunc(reSci, text, func(m regexp2.Match) string {
		coeff := numericWords(group(m, 1))
		exp, _ := strconv.ParseInt(group(m, 2), 10, 64)

		sign := ""
		if exp < 0 {
			sign = "negative "
			exp = -exp
		}
		return coeff + " times ten to the " + sign + NumberToWords(exp)
	})
}

func expandFractions(text string) string {
	return replaceAllFunc(reFraction, text, func(m regexp2.Match) string {
		num, _ := strconv.ParseInt(group(m, 1), 10, 64)
		den, _ := strconv.ParseInt(group(m, 2), 10, 64)
		if den == 0 {
			return group(m, 0)
		}

		var denomWord string
		switch den {
		case 2:
			denomWord = "halves"
			if num == 1 {
				denomWord = "half"
			}
		case 4:
			denomWord = "quarters"
			if num == 1 {
				denomWord = "quarter"
			}
		default:
			denomWord = ordinalWords(den)
			if num != 1 {
				denomWord += "s"
			}
		}
		return NumberToWords(num) + " " + denomWord
	})
}

var decadeNames = []string{
	"hundreds", "tens", "twenties", "thirties", "forties",
	"fifties", "sixties", "seventies", "eighties", "nineties",
}

func expandDecades(text string) string {
	return replaceAllFunc(reDecade, text, func(m regexp2.Match) string {
		base, _ := strconv.ParseInt(group(m, 1), 10, 64)
		decadeWord := decadeNames[base%10]
		if base < 10 {
			return decadeWord
		}
		return NumberToWords(base/10) + " " + decadeWord
	})
}

func expandIPAddresses(text string) string {
	return replaceAllFunc(reIP, text, func(m regexp2.Match) string {
		octets := make([]string, 4)
		for i := range octets {
			octets[i] = digitsToWords(group(m, i+1))
		}
		return strings.Join(octets, " dot ")
	})
}

func expandPhoneNumbers(text string) string {
	speak := func(groups ...string) string {
		words := make([]string, len(groups))
		for i, g := range groups {
			words[i] = digitsToWords(g)
		}
		return strings.Join(words, " ")
	}

	// Longest pattern first, so a shorter pattern cannot consume part of a
	// longer one.
	text = replaceAllFunc(rePhone11, text, func(m regexp2.Match) string {
		return speak(group(m, 1), group(m, 2), group(m, 3), group(m, 4))
	})
	text = replaceAllFunc(rePhone10, text, func(m regexp2.Match) string {
		return speak(group(m, 1), group(m, 2), group(m, 3))
	})
	return replaceAllFunc(rePhone7, text, func(m regexp2.Match) string {
		return speak(group(m, 1), group(m, 2))
	})
}

func normalizeLeadingDecimals(text string) string {
	text = replaceAll(reNegLead, text, "${1}0.$2")
	return replaceAll(reLeadDec, text, "0.$1")
}

func replaceNumbers(text string) string {
	return replaceAllFunc(reNumber, text, func(m regexp2.Match) string {
		raw := strings.ReplaceAll(group(m, 0), ",", "")
		if strings.Contains(raw, ".") {
			return FloatToWords(raw)
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return NumberToWords(n)
		}
		return group(m, 0)
	})
}

func expandContractions(text string) string {
	for _, rule := range contractionRules {
		text = replaceAll(rule.re, text, rule.replacement)
	}
	return text
}

func removeURLs(text string) string     { return replaceAll(reURL, text, "") }
func removeEmails(text string) string   { return replaceAll(reEmail, text, "") }
func removeHTMLTags(text string) string { return replaceAll(reHTML, text, " ") }

func removePunctuation(text string) string { return replaceAll(rePunct, text, " ") }

func collapseWhitespace(text string) string {
	return replaceAll(reSpaces, strings.TrimSpace(text), " ")
}
