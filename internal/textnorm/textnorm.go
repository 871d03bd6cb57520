// Package textnorm holds the normalizers shared by the rule extractor, the
// LLM response parser and the merge engine, so that both extraction paths
// produce comparable keys.
package textnorm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// Fold maps full-width forms (digits, ASCII punctuation, the ideographic
// space) to their half-width equivalents. The mapping is rune-for-rune, so
// rune offsets in the folded string equal rune offsets in the input.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(foldRune(r))
	}
	return b.String()
}

func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		return r
	}
	p := width.LookupRune(r)
	if p.Kind() == width.EastAsianFullwidth {
		if n := p.Narrow(); n != 0 {
			return n
		}
	}
	return r
}

// Key returns the comparison key used for names and free text: folded,
// lower-cased, with whitespace removed.
func Key(s string) string {
	s = Fold(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// LawKey drops the "中华人民共和国" prefix and book-title marks so that
// 《中华人民共和国民法典》 and 民法典 compare equal.
func LawKey(law string) string {
	k := Key(law)
	k = strings.Trim(k, "《》<>\"'")
	return strings.TrimPrefix(k, "中华人民共和国")
}

// ISODate validates a calendar date and renders it as YYYY-MM-DD.
func ISODate(year, month, day int) (string, bool) {
	if year < 1900 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// ParseDate accepts the date spellings found in judgments and in LLM output:
// 2024-03-15, 2024/3/15, 2024.03.15, 2024年3月15日 and 二〇二四年三月十五日.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(Fold(s))
	if s == "" {
		return "", false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02"), true
	}

	var parts []string
	switch {
	case strings.Contains(s, "年"):
		s = strings.TrimSuffix(strings.TrimSuffix(s, "日"), "号")
		y, rest, ok := strings.Cut(s, "年")
		if !ok {
			return "", false
		}
		m, d, ok := strings.Cut(rest, "月")
		if !ok {
			return "", false
		}
		parts = []string{y, m, d}
	default:
		parts = strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' || r == '.' })
	}
	if len(parts) != 3 {
		return "", false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, ok := parseDatePart(p, i == 0)
		if !ok {
			return "", false
		}
		nums[i] = n
	}
	return ISODate(nums[0], nums[1], nums[2])
}

func parseDatePart(p string, isYear bool) (int, bool) {
	p = strings.TrimSpace(p)
	if p == "" {
		return 0, false
	}
	if isDigits(p) {
		var n int
		_, err := fmt.Sscanf(p, "%d", &n)
		return n, err == nil
	}
	if isYear {
		return ChineseDigits(p)
	}
	return ChineseInt(p)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

var cnDigits = map[rune]int{
	'〇': 0, '零': 0, '○': 0,
	'一': 1, '壹': 1,
	'二': 2, '贰': 2, '两': 2,
	'三': 3, '叁': 3,
	'四': 4, '肆': 4,
	'五': 5, '伍': 5,
	'六': 6, '陆': 6,
	'七': 7, '柒': 7,
	'八': 8, '捌': 8,
	'九': 9, '玖': 9,
}

var cnUnits = map[rune]int{
	'十': 10, '拾': 10,
	'百': 100, '佰': 100,
	'千': 1000, '仟': 1000,
}

// ChineseDigits reads a digit-by-digit numeral such as 二〇二四.
func ChineseDigits(s string) (int, bool) {
	n := 0
	count := 0
	for _, r := range s {
		d, ok := cnDigits[r]
		if !ok {
			if r >= '0' && r <= '9' {
				d = int(r - '0')
			} else {
				return 0, false
			}
		}
		n = n*10 + d
		count++
	}
	return n, count > 0
}

// ChineseInt reads a positional numeral below 10000 such as 六百六十七 or
// 十五. Plain ASCII digits are accepted too.
func ChineseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if isDigits(s) {
		var n int
		_, err := fmt.Sscanf(s, "%d", &n)
		return n, err == nil
	}

	total, digit := 0, -1
	for _, r := range s {
		if d, ok := cnDigits[r]; ok {
			digit = d
			continue
		}
		unit, ok := cnUnits[r]
		if !ok {
			return 0, false
		}
		if digit < 0 {
			// 十五: a leading unit implies one.
			digit = 1
		}
		total += digit * unit
		digit = -1
	}
	if digit > 0 {
		total += digit
	}
	return total, true
}

var amountUnits = map[string]int64{
	"":  1,
	"千": 1000,
	"万": 10000,
	"亿": 100000000,
}

// Amount parses a numeral with optional thousands separators and scales it
// by a Chinese magnitude unit (千, 万, 亿).
func Amount(num, unit string) (decimal.Decimal, error) {
	num = strings.ReplaceAll(Fold(num), ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", num, err)
	}
	scale, ok := amountUnits[unit]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown amount unit %q", unit)
	}
	return d.Mul(decimal.NewFromInt(scale)), nil
}

// Currency maps currency words and codes to ISO 4217. Unknown or empty
// input is treated as renminbi.
func Currency(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USD", "美元", "$", "US$":
		return "USD"
	case "HKD", "港元", "港币":
		return "HKD"
	case "EUR", "欧元", "€":
		return "EUR"
	default:
		return "CNY"
	}
}

// Bigrams splits text into overlapping rune pairs after keying. Chinese text
// has no word delimiters, so character bigrams serve as tokens.
func Bigrams(s string) map[string]struct{} {
	runes := []rune(Key(s))
	out := make(map[string]struct{}, len(runes))
	if len(runes) == 1 {
		out[string(runes)] = struct{}{}
		return out
	}
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])] = struct{}{}
	}
	return out
}

// Overlap returns the Jaccard similarity of the bigram sets of a and b.
func Overlap(a, b string) float64 {
	sa, sb := Bigrams(a), Bigrams(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for k := range sa {
		if _, ok := sb[k]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

var reArticleNumber = regexp.MustCompile(`^第?\s*([0-9零〇一二两三四五六七八九十百千]+)\s*条`)

// ArticleNumber reads 第六百六十七条, 第667条 or a bare 667. It returns 0
// when no article number is present.
func ArticleNumber(article string) int {
	a := strings.TrimSpace(Fold(article))
	if a == "" {
		return 0
	}
	if n, err := strconv.Atoi(a); err == nil && n > 0 {
		return n
	}
	m := reArticleNumber.FindStringSubmatch(a)
	if m == nil {
		return 0
	}
	n, ok := ChineseInt(m[1])
	if !ok {
		return 0
	}
	return n
}
