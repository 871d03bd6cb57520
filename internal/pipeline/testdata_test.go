package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ppiankov/caselens/internal/llm"
	"github.com/ppiankov/caselens/internal/model"
)

const loanJudgment = `北京市朝阳区人民法院
民事判决书
（2024）京0105民初12345号
原告：张三，男，1980年5月1日出生。
被告：李四，男，1982年6月2日出生。
原告张三诉被告李四民间借贷纠纷一案，本院于2024年3月15日立案受理后，于2024年4月10日公开开庭进行了审理。
原告张三向本院提出诉讼请求：判令被告归还借款本金100万元及利息。
本院认为，被告未按约定归还借款，构成违约。依照《中华人民共和国民法典》第六百六十七条、第六百七十五条之规定，判决如下：
被告李四于本判决生效之日起十日内归还原告张三借款本金100万元。案件受理费13800元，由被告负担。
二〇二四年五月二十日`

// fakeAI is a scripted AI branch that counts its invocations.
type fakeAI struct {
	elements []model.Element
	err      error
	wait     bool // block until ctx is done
	calls    int32
}

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) Extract(ctx context.Context, text string) ([]model.Element, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Element, len(f.elements))
	copy(out, f.elements)
	return out, nil
}

func (f *fakeAI) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

// scriptedProvider is an llm.Provider that always answers with text.
type scriptedProvider struct {
	text  string
	calls int32
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	atomic.AddInt32(&p.calls, 1)
	return &llm.CompletionResponse{Text: p.text, Model: "scripted-1", TokensUsed: 10}, nil
}

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func aiParty(name string, role model.PartyRole, confidence float64) model.Element {
	return model.NewParty(model.SourceAI, model.PartyValue{Name: name, Role: role}, confidence)
}

func aiDate(date string, typ model.DateType, confidence float64) model.Element {
	return model.NewDate(model.SourceAI, model.DateValue{Date: date, Type: typ}, confidence)
}

func aiFact(text string, confidence float64) model.Element {
	return model.NewFact(model.SourceAI, model.FactValue{Text: text}, confidence)
}

func request(text string, enableAI bool) model.ExtractionRequest {
	return model.ExtractionRequest{Text: text, Options: model.ExtractionOptions{EnableAI: model.Bool(enableAI)}}
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
