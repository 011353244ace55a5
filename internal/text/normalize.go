// Package text rewrites raw input into the normalized spoken-word form the
// phonemizer expects, and splits long text into synthesis-sized chunks.
//
// Normalization is an ordered chain of context-free rewrite passes. The order
// is load-bearing: later passes consume the output of earlier ones (currency
// must run before bare numbers so the symbol is still adjacent to its digits,
// leading-decimal repair must run before any numeric pass, and so on).
package text

import "strings"

// Options toggles individual normalization passes. Disabling a pass skips
// only that rewrite; the remaining passes are unaffected.
type Options struct {
	RemoveHTML               bool
	RemoveURLs               bool
	RemoveEmails             bool
	ExpandContractions       bool
	ExpandIPAddresses        bool
	NormalizeLeadingDecimals bool
	ExpandCurrency           bool
	ExpandPercentages        bool
	ExpandScientific         bool
	ExpandTime               bool
	ExpandOrdinals           bool
	ExpandUnits              bool
	ExpandScaleSuffixes      bool
	ExpandFractions          bool
	ExpandDecades            bool
	ExpandPhoneNumbers       bool
	ExpandRanges             bool
	ExpandModelNames         bool
	ReplaceNumbers           bool
	RemovePunctuation        bool
	Lowercase                bool
	CollapseWhitespace       bool
}

// DefaultOptions enables every pass.
func DefaultOptions() Options {
	return Options{
		RemoveHTML:               true,
		RemoveURLs:               true,
		RemoveEmails:             true,
		ExpandContractions:       true,
		ExpandIPAddresses:        true,
		NormalizeLeadingDecimals: true,
		ExpandCurrency:           true,
		ExpandPercentages:        true,
		ExpandScientific:         true,
		ExpandTime:               true,
		ExpandOrdinals:           true,
		ExpandUnits:              true,
		ExpandScaleSuffixes:      true,
		ExpandFractions:          true,
		ExpandDecades:            true,
		ExpandPhoneNumbers:       true,
		ExpandRanges:             true,
		ExpandModelNames:         true,
		ReplaceNumbers:           true,
		RemovePunctuation:        true,
		Lowercase:                true,
		CollapseWhitespace:       true,
	}
}

// pass is one named rewrite step in the pipeline.
type pass struct {
	name    string
	enabled func(Options) bool
	apply   func(string) string
}

// passes is the full pipeline in its fixed execution order.
var passes = []pass{
	{"remove_html", func(o Options) bool { return o.RemoveHTML }, removeHTMLTags},
	{"remove_urls", func(o Options) bool { return o.RemoveURLs }, removeURLs},
	{"remove_emails", func(o Options) bool { return o.RemoveEmails }, removeEmails},
	{"expand_contractions", func(o Options) bool { return o.ExpandContractions }, expandContractions},
	{"expand_ip_addresses", func(o Options) bool { return o.ExpandIPAddresses }, expandIPAddresses},
	{"normalize_leading_decimals", func(o Options) bool { return o.NormalizeLeadingDecimals }, normalizeLeadingDecimals},
	{"expand_currency", func(o Options) bool { return o.ExpandCurrency }, expandCurrency},
	{"expand_percentages", func(o Options) bool { return o.ExpandPercentages }, expandPercentages},
	{"expand_scientific_notation", func(o Options) bool { return o.ExpandScientific }, expandScientificNotation},
	{"expand_time", func(o Options) bool { return o.ExpandTime }, expandTime},
	{"expand_ordinals", func(o Options) bool { return o.ExpandOrdinals }, expandOrdinals},
	{"expand_units", func(o Options) bool { return o.ExpandUnits }, expandUnits},
	{"expand_scale_suffixes", func(o Options) bool { return o.ExpandScaleSuffixes }, expandScaleSuffixes},
	{"expand_fractions", func(o Options) bool { return o.ExpandFractions }, expandFractions},
	{"expand_decades", func(o Options) bool { return o.ExpandDecades }, expandDecades},
	{"expand_phone_numbers", func(o Options) bool { return o.ExpandPhoneNumbers }, expandPhoneNumbers},
	{"expand_ranges", func(o Options) bool { return o.ExpandRanges }, expandRanges},
	{"expand_model_names", func(o Options) bool { return o.ExpandModelNames }, expandModelNames},
	{"replace_numbers", func(o Options) bool { return o.ReplaceNumbers }, replaceNumbers},
	{"remove_punctuation", func(o Options) bool { return o.RemovePunctuation }, removePunctuation},
	{"lowercase", func(o Options) bool { return o.Lowercase }, strings.ToLower},
	{"collapse_whitespace", func(o Options) bool { return o.CollapseWhitespace }, collapseWhitespace},
}

// PassNames returns the pipeline order, one name per pass.
func PassNames() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

// Normalizer runs the rewrite pipeline with a fixed option set.
type Normalizer struct {
	opts Options
}

// NewNormalizer returns a normalizer with every pass enabled.
func NewNormalizer() *Normalizer {
	return &Normalizer{opts: DefaultOptions()}
}

// NewNormalizerWithOptions returns a normalizer with the given pass toggles.
func NewNormalizerWithOptions(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize rewrites raw text into its normalized spoken form.
func (n *Normalizer) Normalize(text string) string {
	for _, p := range passes {
		if p.enabled(n.opts) {
			text = p.apply(text)
		}
	}
	return text
}
