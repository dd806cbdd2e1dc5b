package services

import (
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"market-scraper/models"
	"market-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(records []*models.Record) *models.InsightReport {
	report := &models.InsightReport{
		ActivityByType: make(map[string]int),
	}

	report.TotalRecords = len(records)
	for _, r := range records {
		if r.SellPrice != "" {
			report.WithSellOrders++
		}
		if r.BuyPrice != "" {
			report.WithBuyOrders++
		}
		if len(r.RecentActivity) > 0 {
			report.WithActivity++
		}
		for _, a := range r.RecentActivity {
			if a.ActivityType != "" {
				report.ActivityByType[a.ActivityType]++
			}
		}
		if len(r.RecentActivity) > 0 &&
			(report.MostActiveRecord == nil || len(r.RecentActivity) > len(report.MostActiveRecord.RecentActivity)) {
			report.MostActiveRecord = r
		}
	}

	s.logger.Debug("[insights] %d records, %d activity types", report.TotalRecords, len(report.ActivityByType))
	return report
}

// Render writes the report as two tables: the overview and the activity
// breakdown sorted by count.
func (s *InsightService) Render(w io.Writer, r *models.InsightReport) {
	overview := table.NewWriter()
	overview.SetOutputMirror(w)
	overview.SetTitle("Market scrape insights")
	overview.AppendHeader(table.Row{"Metric", "Value"})
	overview.AppendRows([]table.Row{
		{"Total records", r.TotalRecords},
		{"With sell orders", r.WithSellOrders},
		{"With buy orders", r.WithBuyOrders},
		{"With recent activity", r.WithActivity},
	})
	if r.MostActiveRecord != nil {
		overview.AppendRow(table.Row{"Most active item", r.MostActiveRecord.URL})
	}
	overview.Render()

	if len(r.ActivityByType) == 0 {
		return
	}

	types := make([]string, 0, len(r.ActivityByType))
	for t := range r.ActivityByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		ci, cj := r.ActivityByType[types[i]], r.ActivityByType[types[j]]
		if ci != cj {
			return ci > cj
		}
		return types[i] < types[j]
	})

	activity := table.NewWriter()
	activity.SetOutputMirror(w)
	activity.AppendHeader(table.Row{"Activity", "Count"})
	for _, t := range types {
		activity.AppendRow(table.Row{t, r.ActivityByType[t]})
	}
	activity.Render()
}
