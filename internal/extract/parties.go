package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/caselens/internal/extract/adapters"
	"github.com/ppiankov/caselens/internal/model"
)

const maxNameRunes = 40

var companySuffixes = []string{
	"有限责任公司", "股份有限公司", "有限公司", "公司", "银行", "合作社",
	"委员会", "研究院", "事务所", "医院", "学校", "中心", "集团", "厂", "店", "局",
}

// Characters that end a name. Company names tolerate more characters than
// personal names do.
const (
	companyStops = "诉与向于因称系在为是等及和的,。;:、"
	personStops  = "诉与向于因称系的等及和借在对就男女均已未辩认提请经应要主支归偿返承赔签出为将把以是所自从到也又即并但同不无有给按依由欠付还交共被民纠案负履答抗拒作名代之,。;:、("
)

var (
	nameRejectExact  = map[string]bool{"方": true, "人": true, "某": true, "其": true, "公司": true}
	nameRejectPrefix = []string{
		"本院", "双方", "原审", "一审", "二审", "主张", "提交", "提供", "要求", "请求", "认为",
		"陈述", "表示", "自认", "起诉", "申请", "不服", "当庭", "对此", "委托", "诉讼", "同意",
	}
)

// partyRecognizers builds the two party rows for an adapter's markers: the
// explicit "原告:" form and the inline "原告张三" form.
func partyRecognizers(markers []adapters.PartyMarker) []recognizer {
	roles := make(map[string]model.PartyRole, len(markers))
	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		roles[m.Marker] = m.Role
		quoted = append(quoted, regexp.QuoteMeta(m.Marker))
	}
	alt := "(" + strings.Join(quoted, "|") + ")" + `(?:\([^()]{1,16}\))?`

	build := func(colon bool) func(d *document, m []int, r *recognizer) []model.Element {
		return func(d *document, m []int, r *recognizer) []model.Element {
			rest := d.text[m[1]:]
			if !colon && strings.HasPrefix(rest, ":") {
				return nil
			}
			name, consumed, truncated, ok := readName(rest)
			if !ok {
				return nil
			}
			marker := group(d, m, 1)
			conf := r.confidence
			if truncated {
				conf = confPartyTruncated
			}
			nameStart := d.runeAt(m[1])
			sp := d.span(m[0], m[1]+consumed)
			el := model.NewParty(model.SourceRule, model.PartyValue{
				Name: string(d.raw[nameStart : nameStart+len([]rune(name))]),
				Role: roles[marker],
			}, conf)
			el.Span = sp
			el.Description = "当事人(" + marker + "): " + name
			return []model.Element{el}
		}
	}

	return []recognizer{
		{
			name:       "party-marker-colon",
			category:   model.CategoryParty,
			pattern:    regexp.MustCompile(alt + `\s*:\s*`),
			confidence: confPartyColon,
			build:      build(true),
		},
		{
			name:       "party-marker-inline",
			category:   model.CategoryParty,
			pattern:    regexp.MustCompile(alt),
			confidence: confPartyInline,
			build:      build(false),
		},
	}
}

func isNameRune(r rune) bool {
	return unicode.Is(unicode.Han, r) || r == '·' ||
		r == '(' || r == ')' ||
		(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// readName reads a party name from the start of folded text. It returns the
// name, its length in bytes, and whether a personal name had to be cut to
// three characters.
func readName(text string) (name string, consumed int, truncated bool, ok bool) {
	var run []rune
	for _, r := range text {
		if !isNameRune(r) || len(run) == maxNameRunes {
			break
		}
		run = append(run, r)
	}
	if len(run) < 2 {
		return "", 0, false, false
	}

	if company, ok := companyName(run); ok {
		return company, len(company), false, acceptName(company)
	}

	cut := len(run)
	for i, r := range run {
		if strings.ContainsRune(personStops, r) {
			cut = i
			break
		}
	}
	person := run[:cut]
	for _, r := range person {
		if !unicode.Is(unicode.Han, r) && r != '·' {
			return "", 0, false, false
		}
	}
	if len(person) > 4 {
		person = person[:3]
		truncated = true
	}
	if len(person) < 2 {
		return "", 0, false, false
	}
	name = string(person)
	return name, len(name), truncated, acceptName(name)
}

// companyName finds the earliest organization suffix before any company
// stop character, extending across chained suffixes such as 银行有限公司.
func companyName(run []rune) (string, bool) {
	s := string(run)
	if i := strings.IndexAny(s, companyStops); i >= 0 {
		s = s[:i]
	}
	end := -1
	for _, suffix := range companySuffixes {
		if i := strings.Index(s, suffix); i > 0 && (end < 0 || i+len(suffix) < end) {
			end = i + len(suffix)
		}
	}
	if end < 0 {
		return "", false
	}
	for extended := true; extended; {
		extended = false
		for _, suffix := range companySuffixes {
			if strings.HasPrefix(s[end:], suffix) {
				end += len(suffix)
				extended = true
				break
			}
		}
	}
	name := s[:end]
	if len([]rune(name)) < 3 {
		return "", false
	}
	return name, true
}

func acceptName(name string) bool {
	if nameRejectExact[name] {
		return false
	}
	for _, p := range nameRejectPrefix {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}
