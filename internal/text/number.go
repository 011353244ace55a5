package text

import (
	"strconv"
	"strings"
)

var ones = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}

var scales = []string{"", "thousand", "million", "billion", "trillion"}

func threeDigitsToWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string
	hundreds := n / 100
	remainder := n % 100

	if hundreds > 0 {
		parts = append(parts, ones[hundreds]+" hundred")
	}
	if remainder < 20 {
		if remainder > 0 {
			parts = append(parts, ones[remainder])
		}
	} else {
		tensWord := tens[remainder/10]
		onesWord := ones[remainder%10]
		if onesWord == "" {
			parts = append(parts, tensWord)
		} else {
			parts = append(parts, tensWord+"-"+onesWord)
		}
	}

	return strings.Join(parts, " ")
}

// NumberToWords spells an integer in English, grouping into 3-digit chunks
// with scale words up to the trillions. Even multiples of 100 below 10,000
// (but not of 1,000) read as "<N> hundred", matching how years are spoken.
func NumberToWords(n int64) string {
	if n < 0 {
		return "negative " + NumberToWords(-n)
	}
	if n == 0 {
		return "zero"
	}

	if n >= 100 && n <= 9999 && n%100 == 0 && n%1000 != 0 {
		if hundreds := n / 100; hundreds < 20 {
			return ones[hundreds] + " hundred"
		}
	}

	var parts []string
	remaining := n
	for _, scale := range scales {
		chunk := remaining % 1000
		if chunk > 0 {
			words := threeDigitsToWords(chunk)
			if scale != "" {
				words += " " + scale
			}
			parts = append(parts, words)
		}
		remaining /= 1000
		if remaining == 0 {
			break
		}
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, " ")
}

var digitWords = map[byte]string{
	'0': "zero", '1': "one", '2': "two", '3': "three", '4': "four",
	'5': "five", '6': "six", '7': "seven", '8': "eight", '9': "nine",
}

// FloatToWords spells a decimal number string, reading the digits after the
// point individually ("3.14" reads "three point one four").
func FloatToWords(value string) string {
	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	var result string
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		intPart, decPart := value[:dot], value[dot+1:]
		intWords := "zero"
		if intPart != "" {
			n, _ := strconv.ParseInt(intPart, 10, 64)
			intWords = NumberToWords(n)
		}
		decWords := make([]string, 0, len(decPart))
		for i := 0; i < len(decPart); i++ {
			if w, ok := digitWords[decPart[i]]; ok {
				decWords = append(decWords, w)
			}
		}
		result = intWords + " point " + strings.Join(decWords, " ")
	} else {
		n, _ := strconv.ParseInt(value, 10, 64)
		result = NumberToWords(n)
	}

	if negative {
		return "negative " + result
	}
	return result
}

// digitsToWords reads a digit string one digit at a time ("403" reads
// "four zero three"), used for IP addresses and phone numbers.
func digitsToWords(s string) string {
	words := make([]string, 0, len(s))
	for i := 0; i < len(s); i++ {
		if w, ok := digitWords[s[i]]; ok {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

var ordinalExceptions = map[string]string{
	"one":    "first",
	"two":    "second",
	"three":  "third",
	"four":   "fourth",
	"five":   "fifth",
	"six":    "sixth",
	"seven":  "seventh",
	"eight":  "eighth",
	"nine":   "ninth",
	"twelve": "twelfth",
}

// ordinalWords spells n as an ordinal ("21" reads "twenty-first"). Only the
// final word of the cardinal phrase is converted: through a small exception
// table first, then by suffix rule (trailing "t" gains "h", trailing "e" is
// replaced by "th", anything else gains "th").
func ordinalWords(n int64) string {
	word := NumberToWords(n)

	prefix, last, sep := "", word, ""
	if pos := strings.LastIndexByte(word, '-'); pos >= 0 {
		prefix, last, sep = word[:pos], word[pos+1:], "-"
	} else if pos := strings.LastIndexByte(word, ' '); pos >= 0 {
		prefix, last, sep = word[:pos], word[pos+1:], " "
	}

	ord, ok := ordinalExceptions[last]
	if !ok {
		switch {
		case strings.HasSuffix(last, "t"):
			ord = last + "h"
		case strings.HasSuffix(last, "e"):
			ord = last[:len(last)-1] + "th"
		default:
			ord = last + "th"
		}
	}

	if prefix == "" {
		return ord
	}
	return prefix + sep + ord
}
