package entity

import "time"

// Commentary は分析結果をAIが平易な文章にまとめたものです。
type Commentary struct {
	Instrument string
	Name       string
	Summary    string
	AsOf       time.Time // 元になった分析の更新時刻
}
