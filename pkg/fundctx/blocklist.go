package fundctx

// codeBlocklist holds three-letter uppercase tokens that look like
// TEFAS fund codes but are ordinary words, currency codes or market
// jargon. A candidate code is dropped when it appears here.
var codeBlocklist = map[string]struct{}{}

func init() {
	blocked := []string{
		// currency and market codes
		"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "TRY",
		"ETF", "RSI", "KAP", "SPK", "BES", "OKS", "TLR", "BIST",
		// English common words
		"THE", "AND", "FOR", "NOT", "ALL", "ANY", "CAN", "HOW",
		"NEW", "NOW", "ONE", "TWO", "TEN", "TOP", "LOW", "BIG",
		"WHO", "WHY", "YES", "GET", "SET", "PUT", "API", "SQL",
		"LLM", "MAX", "MIN", "AVG", "NET", "ROI", "IPO", "CEO",
		// Turkish common words as typed in ASCII capitals
		"FON", "VAR", "YOK", "COK", "SON", "BIR", "IKI",
		"ALT", "UST", "GUN", "YIL", "TUM", "HER", "ILE", "AMA",
		"BEN", "SEN", "BIZ", "SIZ", "KAR", "ZAM", "HAM", "PAY",
		"HIS", "ADT", "ADE", "LIR", "BIN", "MIL", "YTL", "KDV",
		"VOB", "DIB", "OST",
		"ANA", "ILK", "SES", "GOZ", "KAC",
		"ZOR", "HIZ", "DIP", "TEK", "UCU", "OFF", "BUY",
		"SAT", "VER", "GIT", "GEL", "DUR", "BAK", "GOR",
	}
	for _, w := range blocked {
		codeBlocklist[w] = struct{}{}
	}
}

// companyCanon maps a folded substring cue to the canonical portfolio
// company name. Matching is first-cue-wins over the folded question.
var companyCanon = []struct {
	cue  string
	name string
}{
	{"is portfoy", "İş Portföy"},
	{"yapi kredi", "Yapı Kredi Portföy"},
	{"garanti", "Garanti Portföy"},
	{"ak portfoy", "Ak Portföy"},
	{"qnb", "QNB Portföy"},
	{"ziraat", "Ziraat Portföy"},
	{"vakif", "Vakıf Portföy"},
	{"deniz portfoy", "Deniz Portföy"},
	{"fiba", "Fiba Portföy"},
	{"ata portfoy", "Ata Portföy"},
	{"tacirler", "Tacirler Portföy"},
	{"hsbc", "HSBC Portföy"},
}
