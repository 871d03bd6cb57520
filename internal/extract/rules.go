package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
)

// Baseline confidences. These are fixed per recognizer family so that rule
// output is stable and auditable.
const (
	confCaseNumber      = 0.95
	confDateCN          = 0.85
	confDateISO         = 0.80
	confDateDotted      = 0.75
	confDateNumeral     = 0.75
	confGenericDate     = 0.60
	confPartyColon      = 0.90
	confPartyInline     = 0.80
	confPartyTruncated  = 0.65
	confAmountQualified = 0.85
	confAmountBare      = 0.75
	confStatuteArticle  = 0.90
	confStatuteTitle    = 0.70
)

// Window sizes, in runes, for context keyword lookups.
const (
	dateAfterWindow    = 15
	dateBeforeWindow   = 12
	amountBeforeWindow = 20
)

const (
	clauseBoundaries   = "。;,:"
	sentenceBoundaries = "。;"
)

// recognizer is one row of the ordered rule table. build turns a regexp
// match (byte indices into the folded text) into zero or more elements and
// is where normalization to canonical values happens.
type recognizer struct {
	name       string
	category   model.Category
	pattern    *regexp.Regexp
	confidence float64
	build      func(d *document, m []int, r *recognizer) []model.Element
}

const cnNum = `[〇零一二三四五六七八九十百千0-9]+`

var (
	reCaseNumber  = regexp.MustCompile(`[(〔\[](\d{4})[)〕\]]\s*(\p{Han}{1,4}\d{0,6}\p{Han}{1,6}\d{1,8}号)`)
	reDateCN      = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*[日号]`)
	reDateISO     = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	reDateDot     = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`)
	reDateSlash   = regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`)
	reDateNumeral = regexp.MustCompile(`([〇零○一二三四五六七八九]{4})年([一二三四五六七八九十]{1,2})月([一二三四五六七八九十]{1,3})日`)
	reAmount      = regexp.MustCompile(`(人民币|RMB|¥)?\s*(\d+(?:,\d{3})*(?:\.\d+)?)\s*(亿|万|千)?\s*(美元|港元|港币|欧元|元)`)
	reStatute     = regexp.MustCompile(`《([^《》]{2,60})》((?:\s*[、,和及与]?\s*第` + cnNum + `条(?:之[一二三四五六七八九十]+)?(?:第` + cnNum + `款)?(?:第` + cnNum + `项)?)*)`)
	reArticle     = regexp.MustCompile(`第(` + cnNum + `)条(?:之[一二三四五六七八九十]+)?(?:第` + cnNum + `款)?(?:第` + cnNum + `项)?`)
)

// baseRecognizers returns the table rows that do not depend on the document
// type. Party rows are inserted by partyRecognizers.
func baseRecognizers() (before, after []recognizer) {
	before = []recognizer{
		{name: "case-number", category: model.CategoryCaseNumber, pattern: reCaseNumber, confidence: confCaseNumber, build: buildCaseNumber},
		{name: "date-cn", category: model.CategoryDate, pattern: reDateCN, confidence: confDateCN, build: buildDigitDate},
		{name: "date-iso", category: model.CategoryDate, pattern: reDateISO, confidence: confDateISO, build: buildDigitDate},
		{name: "date-dot", category: model.CategoryDate, pattern: reDateDot, confidence: confDateDotted, build: buildDigitDate},
		{name: "date-slash", category: model.CategoryDate, pattern: reDateSlash, confidence: confDateDotted, build: buildDigitDate},
		{name: "date-cn-numeral", category: model.CategoryDate, pattern: reDateNumeral, confidence: confDateNumeral, build: buildNumeralDate},
	}
	after = []recognizer{
		{name: "amount-currency", category: model.CategoryAmount, pattern: reAmount, confidence: confAmountQualified, build: buildAmount},
		{name: "statute-article", category: model.CategoryClause, pattern: reStatute, confidence: confStatuteArticle, build: buildStatuteArticles},
		{name: "statute-title", category: model.CategoryClause, pattern: reStatute, confidence: confStatuteTitle, build: buildStatuteTitle},
	}
	return before, after
}

func group(d *document, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return d.text[m[2*i]:m[2*i+1]]
}

func buildCaseNumber(d *document, m []int, r *recognizer) []model.Element {
	year, _ := strconv.Atoi(group(d, m, 1))
	sp := d.span(m[0], m[1])
	el := model.NewCaseNumber(model.SourceRule, model.CaseNumberValue{
		Number: "(" + group(d, m, 1) + ")" + group(d, m, 2),
		Year:   year,
	}, r.confidence)
	el.Span = sp
	el.Description = "案号: " + d.original(sp)
	return []model.Element{el}
}

// dateKeywords is checked in order; filing wins over hearing wins over
// judgment when a window holds several.
var dateKeywords = []struct {
	typ   model.DateType
	words []string
}{
	{model.DateFiling, []string{"立案", "受理", "起诉", "诉至", "提起诉讼", "递交诉状"}},
	{model.DateHearing, []string{"开庭", "庭审", "审理"}},
	{model.DateJudgment, []string{"判决", "宣判", "裁定", "作出"}},
}

// classifyDate looks for a procedural keyword after the date first, then
// before it, in each case without crossing a clause boundary.
func classifyDate(d *document, m []int) (model.DateType, string, bool) {
	windows := []string{
		d.after(m[1], dateAfterWindow, sentenceBoundaries),
		d.before(m[0], dateBeforeWindow, clauseBoundaries),
	}
	for _, w := range windows {
		for _, kw := range dateKeywords {
			for _, word := range kw.words {
				if strings.Contains(w, word) {
					return kw.typ, word, true
				}
			}
		}
	}
	return model.DateOther, "", false
}

func buildDigitDate(d *document, m []int, r *recognizer) []model.Element {
	y, _ := strconv.Atoi(group(d, m, 1))
	mo, _ := strconv.Atoi(group(d, m, 2))
	day, _ := strconv.Atoi(group(d, m, 3))
	iso, ok := textnorm.ISODate(y, mo, day)
	if !ok {
		return nil
	}
	return []model.Element{dateElement(d, m, r, iso, model.DateOther)}
}

func buildNumeralDate(d *document, m []int, r *recognizer) []model.Element {
	iso, ok := textnorm.ParseDate(d.text[m[0]:m[1]])
	if !ok {
		return nil
	}
	// The signature block at the end of a judgment spells its date in
	// numerals, so an unqualified numeral date is the judgment date.
	return []model.Element{dateElement(d, m, r, iso, model.DateJudgment)}
}

func dateElement(d *document, m []int, r *recognizer, iso string, fallback model.DateType) model.Element {
	typ, word, found := classifyDate(d, m)
	conf := r.confidence
	desc := "日期: "
	switch {
	case found:
		desc = "日期(" + word + "): "
	case fallback != model.DateOther:
		typ = fallback
	default:
		conf = confGenericDate
	}
	sp := d.span(m[0], m[1])
	el := model.NewDate(model.SourceRule, model.DateValue{Date: iso, Type: typ}, conf)
	el.Span = sp
	el.Description = desc + d.original(sp)
	return el
}

// amountPurposes maps context keywords to purposes. The keyword nearest to
// the amount wins; equal distance falls back to table order.
var amountPurposes = []struct {
	word    string
	purpose string
}{
	{"本金", model.PurposePrincipal},
	{"利息", model.PurposeInterest},
	{"违约金", model.PurposePenalty},
	{"经济补偿", model.PurposeSeverance},
	{"补偿金", model.PurposeSeverance},
	{"工资", model.PurposeWages},
	{"赔偿", model.PurposeCompensation},
	{"损失", model.PurposeCompensation},
	{"受理费", model.PurposeCourtFee},
	{"诉讼费", model.PurposeCourtFee},
	{"律师费", model.PurposeAttorneyFee},
	{"租金", model.PurposeRent},
	{"货款", model.PurposePrice},
	{"借款", model.PurposePrincipal},
}

func amountPurpose(window string) string {
	best, bestPos := model.PurposeUnspecified, -1
	for _, p := range amountPurposes {
		if i := strings.LastIndex(window, p.word); i >= 0 && i+len(p.word) > bestPos {
			best, bestPos = p.purpose, i+len(p.word)
		}
	}
	return best
}

func buildAmount(d *document, m []int, r *recognizer) []model.Element {
	value, err := textnorm.Amount(group(d, m, 2), group(d, m, 3))
	if err != nil || !value.IsPositive() {
		return nil
	}
	purpose := amountPurpose(d.before(m[0], amountBeforeWindow, sentenceBoundaries))
	conf := confAmountBare
	if group(d, m, 1) != "" || purpose != model.PurposeUnspecified {
		conf = r.confidence
	}
	sp := d.span(m[0], m[1])
	el := model.NewAmount(model.SourceRule, model.AmountValue{
		Value:    value,
		Currency: textnorm.Currency(group(d, m, 4)),
		Purpose:  purpose,
	}, conf)
	el.Span = sp
	el.Description = "金额: " + strings.TrimSpace(d.original(sp))
	return []model.Element{el}
}

func buildStatuteArticles(d *document, m []int, r *recognizer) []model.Element {
	if m[4] < 0 || m[4] == m[5] {
		return nil
	}
	lawSpan := d.span(m[2], m[3])
	law := d.original(lawSpan)
	articles := d.text[m[4]:m[5]]

	var out []model.Element
	for _, am := range reArticle.FindAllStringSubmatchIndex(articles, -1) {
		number, ok := textnorm.ChineseInt(articles[am[2]:am[3]])
		if !ok {
			continue
		}
		sp := d.span(m[0], m[4]+am[1])
		article := d.original(d.span(m[4]+am[0], m[4]+am[1]))
		el := model.NewClause(model.SourceRule, model.ClauseValue{
			Law:     law,
			Article: article,
			Number:  number,
			Text:    "《" + law + "》" + article,
		}, r.confidence)
		el.Span = sp
		el.Description = "法条引用: 《" + law + "》" + article
		out = append(out, el)
	}
	return out
}

var lawTitleSuffixes = []string{"法", "法典", "条例", "规定", "解释", "办法", "决定", "规则"}

func buildStatuteTitle(d *document, m []int, r *recognizer) []model.Element {
	if m[4] >= 0 && m[4] != m[5] {
		return nil
	}
	lawSpan := d.span(m[2], m[3])
	law := d.original(lawSpan)
	matched := false
	for _, suffix := range lawTitleSuffixes {
		if strings.HasSuffix(law, suffix) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}
	sp := d.span(m[0], m[1])
	el := model.NewClause(model.SourceRule, model.ClauseValue{
		Law:  law,
		Text: "《" + law + "》",
	}, r.confidence)
	el.Span = sp
	el.Description = "法律名称: 《" + law + "》"
	return []model.Element{el}
}
