package models

// InsightReport holds simple aggregates over the stored records.
type InsightReport struct {
	TotalRecords     int
	WithSellOrders   int
	WithBuyOrders    int
	WithActivity     int
	ActivityByType   map[string]int
	MostActiveRecord *Record
}
