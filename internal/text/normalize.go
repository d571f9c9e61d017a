// Package text normalizes written sermon text before synthesis.
//
// Speech backends read exactly what they are given, so anything a preacher
// writes as shorthand (scripture abbreviations, digits, verse references)
// is expanded to the spoken form here.
package text

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Bounds for the number-to-words conversion.
const (
	numberBaseTen      = 10
	numberBaseTwenty   = 20
	numberBaseHundred  = 100
	numberBaseThousand = 1000
	maxNumberForWords  = 999999
)

// Regex patterns.
const (
	verseRefRegexPattern   = `\b(\d+):(\d+)(?:-(\d+))?\b`
	numberRegexPattern     = `\d+`
	whitespaceRegexPattern = `\s+`
)

// Typography that trips up speech backends.
const (
	emDash       = "—"
	enDash       = "–"
	figureDash   = "‒"
	ellipsis     = "..."
	ellipsisChar = "…"
)

// Normalizer prepares sermon text for a speech backend.
type Normalizer struct {
	verseRefPattern   *regexp.Regexp
	numberPattern     *regexp.Regexp
	whitespacePattern *regexp.Regexp
	bookReplacer      *strings.Replacer
}

// NewNormalizer creates a normalizer with compiled patterns and replacers.
func NewNormalizer() *Normalizer {
	// Common scripture book abbreviations, expanded so the backend does
	// not spell them out letter by letter.
	books := []string{
		"Gen.", "Genesis",
		"Ex.", "Exodus",
		"Lev.", "Leviticus",
		"Num.", "Numbers",
		"Deut.", "Deuteronomy",
		"Ps.", "Psalm",
		"Prov.", "Proverbs",
		"Eccl.", "Ecclesiastes",
		"Isa.", "Isaiah",
		"Jer.", "Jeremiah",
		"Ezek.", "Ezekiel",
		"Matt.", "Matthew",
		"Mk.", "Mark",
		"Lk.", "Luke",
		"Jn.", "John",
		"Rom.", "Romans",
		"Cor.", "Corinthians",
		"Gal.", "Galatians",
		"Eph.", "Ephesians",
		"Phil.", "Philippians",
		"Col.", "Colossians",
		"Thess.", "Thessalonians",
		"Tim.", "Timothy",
		"Heb.", "Hebrews",
		"Rev.", "Revelation",
	}

	return &Normalizer{
		verseRefPattern:   regexp.MustCompile(verseRefRegexPattern),
		numberPattern:     regexp.MustCompile(numberRegexPattern),
		whitespacePattern: regexp.MustCompile(whitespaceRegexPattern),
		bookReplacer:      strings.NewReplacer(books...),
	}
}

// Normalize performs the full cleaning pipeline. Cheaper transformations run
// first; the output of each step feeds the next.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return text
	}

	normalized := n.expandBookAbbreviations(text)
	normalized = n.expandVerseReferences(normalized)
	normalized = n.normalizeNumbers(normalized)
	normalized = n.normalizeQuotesAndDashes(normalized)
	normalized = n.normalizeWhitespace(normalized)
	normalized = n.removeExcessivePunctuation(normalized)

	return n.ensureProperSentenceEnding(normalized)
}

// expandBookAbbreviations converts scripture shorthand to full book names.
func (n *Normalizer) expandBookAbbreviations(text string) string {
	return n.bookReplacer.Replace(text)
}

// expandVerseReferences rewrites chapter:verse references to their spoken
// form, e.g. "3:16" becomes "3 verse 16" and "5:3-10" becomes
// "5 verses 3 to 10". Numbers are written out by normalizeNumbers later.
func (n *Normalizer) expandVerseReferences(text string) string {
	return n.verseRefPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := n.verseRefPattern.FindStringSubmatch(match)
		if groups == nil {
			return match
		}

		chapter, verse, verseEnd := groups[1], groups[2], groups[3]
		if verseEnd != "" {
			return chapter + " verses " + verse + " to " + verseEnd
		}

		return chapter + " verse " + verse
	})
}

// normalizeNumbers converts integers in the text to words.
func (n *Normalizer) normalizeNumbers(text string) string {
	return n.numberPattern.ReplaceAllStringFunc(text, func(s string) string {
		num, err := strconv.Atoi(s)
		if err != nil {
			return s
		}

		return integerToWords(num)
	})
}

func (n *Normalizer) normalizeQuotesAndDashes(text string) string {
	replacer := strings.NewReplacer(
		emDash, "-",
		enDash, "-",
		figureDash, "-",
		ellipsisChar, ellipsis,
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)

	return replacer.Replace(text)
}

func (n *Normalizer) normalizeWhitespace(text string) string {
	return strings.TrimSpace(n.whitespacePattern.ReplaceAllString(text, " "))
}

// removeExcessivePunctuation collapses runs of punctuation to the first mark.
// Apostrophes inside words are kept.
func (n *Normalizer) removeExcessivePunctuation(text string) string {
	var (
		result       []rune
		lastWasPunct bool
	)

	for _, char := range text {
		isPunct := unicode.IsPunct(char) && char != '\''
		if !isPunct || !lastWasPunct {
			result = append(result, char)
		}

		lastWasPunct = isPunct
	}

	return string(result)
}

// ensureProperSentenceEnding makes sure the text ends with terminal
// punctuation so the backend closes the final phrase.
func (n *Normalizer) ensureProperSentenceEnding(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	lastChar, _ := utf8.DecodeLastRuneInString(trimmed)
	switch lastChar {
	case '.', '!', '?':
		return trimmed
	}

	if unicode.IsPunct(lastChar) {
		trimmed = strings.TrimRightFunc(trimmed, unicode.IsPunct)
	}

	return trimmed + "."
}

// integerToWords converts an integer into its English word representation,
// up to six digits. Larger values are left as digits.
type numberConverter struct {
	ones  []string
	teens []string
	tens  []string
}

func newNumberConverter() *numberConverter {
	return &numberConverter{
		ones: []string{
			"", "one", "two", "three", "four", "five",
			"six", "seven", "eight", "nine",
		},
		teens: []string{
			"ten", "eleven", "twelve", "thirteen", "fourteen",
			"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
		},
		tens: []string{
			"", "", "twenty", "thirty", "forty", "fifty",
			"sixty", "seventy", "eighty", "ninety",
		},
	}
}

func (nc *numberConverter) convertUnderHundred(num int) string {
	if num < numberBaseTen {
		return nc.ones[num]
	}

	if num < numberBaseTwenty {
		return nc.teens[num-numberBaseTen]
	}

	result := nc.tens[num/numberBaseTen]
	if num%numberBaseTen > 0 {
		result += " " + nc.ones[num%numberBaseTen]
	}

	return result
}

func (nc *numberConverter) convertUnderThousand(num int) string {
	var parts []string

	if num >= numberBaseHundred {
		parts = append(parts, nc.ones[num/numberBaseHundred]+" hundred")
		num %= numberBaseHundred
	}

	if num > 0 {
		parts = append(parts, nc.convertUnderHundred(num))
	}

	return strings.Join(parts, " ")
}

func integerToWords(number int) string {
	if number < 0 || number > maxNumberForWords {
		return strconv.Itoa(number)
	}

	if number == 0 {
		return "zero"
	}

	converter := newNumberConverter()

	var parts []string

	if number >= numberBaseThousand {
		parts = append(
			parts,
			converter.convertUnderThousand(number/numberBaseThousand)+" thousand",
		)
		number %= numberBaseThousand
	}

	if number > 0 {
		parts = append(parts, converter.convertUnderThousand(number))
	}

	return strings.Join(parts, " ")
}
