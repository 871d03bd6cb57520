// Package provisions suggests the statutes relevant to a detected case type
// and grades the statutes a judgment cites.
package provisions

// entry is a catalog row before the authority tier is assigned.
type entry struct {
	law     string
	article string
	title   string
}

const (
	civilCode       = "中华人民共和国民法典"
	civilProcedure  = "中华人民共和国民事诉讼法"
	laborContract   = "中华人民共和国劳动合同法"
	roadTraffic     = "中华人民共和国道路交通安全法"
	privateLending  = "最高人民法院关于审理民间借贷案件适用法律若干问题的规定"
	trafficTortRule = "最高人民法院关于审理道路交通事故损害赔偿案件适用法律若干问题的解释"
)

// common applies to every civil case.
var common = []entry{
	{civilProcedure, "第六十七条", "当事人对自己提出的主张有责任提供证据"},
}

// defaultCatalog is keyed by the case-type labels the rule extractor emits.
var defaultCatalog = map[string][]entry{
	"民间借贷纠纷": {
		{civilCode, "第六百六十七条", "借款合同的定义"},
		{civilCode, "第六百七十四条", "借款人支付利息的期限"},
		{civilCode, "第六百七十五条", "借款人返还借款的期限"},
		{civilCode, "第六百七十六条", "逾期利息"},
		{civilCode, "第六百八十条", "禁止高利放贷"},
		{privateLending, "第二十五条", "借款利率上限"},
		{privateLending, "第二十八条", "逾期利率"},
	},
	"劳动争议": {
		{laborContract, "第三十条", "劳动报酬的支付"},
		{laborContract, "第四十六条", "经济补偿的情形"},
		{laborContract, "第四十七条", "经济补偿的计算"},
		{laborContract, "第八十二条", "未订立书面劳动合同的二倍工资"},
		{laborContract, "第八十七条", "违法解除劳动合同的赔偿金"},
	},
	"离婚纠纷": {
		{civilCode, "第一千零七十九条", "诉讼离婚"},
		{civilCode, "第一千零八十四条", "离婚后子女的抚养"},
		{civilCode, "第一千零八十七条", "离婚时夫妻共同财产的处理"},
	},
	"机动车交通事故责任纠纷": {
		{roadTraffic, "第七十六条", "交通事故损害赔偿责任"},
		{civilCode, "第一千二百零八条", "机动车交通事故责任的法律适用"},
		{civilCode, "第一千二百一十三条", "保险赔偿的顺序"},
		{trafficTortRule, "第十三条", "交强险与商业险的赔偿顺序"},
	},
	"房屋租赁合同纠纷": {
		{civilCode, "第七百零三条", "租赁合同的定义"},
		{civilCode, "第七百二十一条", "租金支付期限"},
		{civilCode, "第七百二十二条", "承租人不支付租金的责任"},
		{civilCode, "第七百三十三条", "租赁期限届满返还租赁物"},
	},
	"买卖合同纠纷": {
		{civilCode, "第五百九十五条", "买卖合同的定义"},
		{civilCode, "第六百二十六条", "买受人支付价款"},
		{civilCode, "第六百二十八条", "价款的支付时间"},
	},
	"合同纠纷": {
		{civilCode, "第五百零九条", "合同的履行原则"},
		{civilCode, "第五百七十七条", "违约责任"},
		{civilCode, "第五百八十四条", "违约损失赔偿范围"},
		{civilCode, "第五百八十五条", "违约金"},
	},
	"侵权责任纠纷": {
		{civilCode, "第一千一百六十五条", "过错责任原则"},
		{civilCode, "第一千一百七十九条", "人身损害赔偿范围"},
		{civilCode, "第一千一百八十四条", "财产损失的计算"},
	},
}
