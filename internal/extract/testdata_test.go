package extract

// loanJudgment is a shortened first-instance private lending judgment used
// across the package tests.
const loanJudgment = `北京市朝阳区人民法院
民事判决书
（2024）京0105民初12345号
原告：张三，男，1980年5月1日出生。
被告：李四，男，1982年6月2日出生。
原告张三诉被告李四民间借贷纠纷一案，本院于2024年3月15日立案受理后，于2024年4月10日公开开庭进行了审理。
原告张三向本院提出诉讼请求：判令被告归还借款本金100万元及利息。
经审理查明：2023年1月5日，被告李四向原告张三借款，双方签订借款合同，约定借款本金人民币1,000,000元。
本院认为，被告未按约定归还借款，构成违约。依照《中华人民共和国民法典》第六百六十七条、第六百七十五条之规定，判决如下：
被告李四于本判决生效之日起十日内归还原告张三借款本金100万元。案件受理费13800元，由被告负担。
二〇二四年五月二十日`
