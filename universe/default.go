package universe

// Default returns a small built-in universe of liquid large-caps, used
// when no stock-list file is configured.
func Default() *Universe {
	return New([]Instrument{
		{Code: "600519", Name: "贵州茅台"},
		{Code: "601318", Name: "中国平安"},
		{Code: "600036", Name: "招商银行"},
		{Code: "000858", Name: "五粮液"},
		{Code: "601166", Name: "兴业银行"},
		{Code: "600030", Name: "中信证券"},
		{Code: "000333", Name: "美的集团"},
		{Code: "600900", Name: "长江电力"},
		{Code: "601888", Name: "中国中免"},
		{Code: "002594", Name: "比亚迪"},
	})
}
