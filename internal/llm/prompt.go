package llm

import (
	"strings"

	"github.com/ppiankov/caselens/internal/textnorm"
)

// SystemPrompt fixes the output language and format of every extraction call.
const SystemPrompt = `你是一名中国法院裁判文书的信息抽取助手。
只输出一个合法的 JSON 对象，不要输出任何解释、标题或 Markdown。
字段值使用简体中文原文；枚举字段 (type, role, purpose, currency) 使用下面列出的英文取值。
每个条目都必须带有 0 到 1 之间的 confidence，表示你对该条目的把握程度。`

const schema = `{
  "dates": [{"date": "YYYY-MM-DD", "type": "filing|hearing|judgment|other", "description": "", "confidence": 0.0}],
  "parties": [{"name": "", "role": "plaintiff|defendant|third-party", "description": "", "confidence": 0.0}],
  "amounts": [{"value": 0, "currency": "CNY|USD|HKD|EUR", "purpose": "principal|interest|penalty|compensation|wages|severance|court-fee|attorney-fee|rent|price|unspecified", "description": "", "confidence": 0.0}],
  "legalClauses": [{"law": "", "article": "第N条", "text": "", "description": "", "confidence": 0.0}],
  "facts": [{"text": "", "description": "", "confidence": 0.0}]
}`

// BuildPrompt renders the user prompt: the task, the JSON schema, and the
// document cut to maxChars runes. A non-positive maxChars keeps the whole
// document.
func BuildPrompt(text string, maxChars int) string {
	var b strings.Builder
	b.WriteString("请从下面的裁判文书中抽取关键要素，并严格按照以下 JSON 结构返回：\n\n")
	b.WriteString(schema)
	b.WriteString("\n\n规则：\n")
	b.WriteString("1. 日期统一写成 YYYY-MM-DD；立案/起诉/受理为 filing，开庭/庭审为 hearing，判决/裁定作出为 judgment。\n")
	b.WriteString("2. 当事人写全名，原告/上诉人/申请人为 plaintiff，被告/被上诉人/被申请人为 defendant，第三人为 third-party。\n")
	b.WriteString("3. 金额 value 写成阿拉伯数字，已换算万、亿等单位。\n")
	b.WriteString("4. 法条 law 不带书名号，article 保留原文写法。\n")
	b.WriteString("5. 没有的字段返回空数组。\n\n")
	b.WriteString("裁判文书：\n")
	b.WriteString(textnorm.TruncateRunes(text, maxChars))
	return b.String()
}
