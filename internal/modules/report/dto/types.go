package dto

type ReportInput struct {
	Type  string
	Month string
}

type BarOutput struct {
	Label   string
	Percent float64
}

type ReportOutput struct {
	Type    string
	Month   string
	Title   string
	Columns []string
	Rows    [][]string
	Bars    []BarOutput
}
