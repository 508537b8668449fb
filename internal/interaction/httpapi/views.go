package httpapi

import (
	"time"

	"github.com/google/uuid"

	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
)

type errorView struct {
	Error string `json:"error"`
}

type rangeView struct {
	Grade            string `json:"grade"`
	Category         string `json:"category"`
	Source           string `json:"source"`
	LowerBound       string `json:"lower_bound"`
	UpperBound       string `json:"upper_bound"`
	BasePrice        string `json:"base_price,omitempty"`
	BasePriceDate    string `json:"base_price_date,omitempty"`
	DaysWithoutSales int    `json:"days_without_sales"`
	Tier             string `json:"tier,omitempty"`
	Status           string `json:"status"`
	Color            string `json:"color"`
}

func newRangeView(gr *usecases.GradeRange) rangeView {
	lower, upper := gr.Bounds()
	view := rangeView{
		Grade:      gr.Grade,
		Category:   model.CategoryOf(gr.Grade).Name(),
		Source:     string(gr.Source),
		LowerBound: lower.StringFixed(2),
		UpperBound: upper.StringFixed(2),
		Status:     "Fixed",
		Color:      "gray",
	}

	if d := gr.Dynamic; d != nil {
		view.BasePrice = d.BasePrice.StringFixed(2)
		view.BasePriceDate = d.BasePriceDate.Format(time.DateOnly)
		view.DaysWithoutSales = d.DaysWithoutSales
		view.Tier = string(d.Tier)
		view.Status = d.StatusText()
		view.Color = d.Tier.Color()
	}

	return view
}

type reportView struct {
	AsOf   string               `json:"as_of"`
	Ranges []rangeView          `json:"ranges"`
	Gaps   []*usecases.RangeGap `json:"gaps"`
}

func newReportView(report *usecases.RangeReport) reportView {
	view := reportView{
		AsOf:   report.AsOf.Format(time.DateOnly),
		Ranges: make([]rangeView, 0, len(report.Ranges)),
		Gaps:   report.Gaps,
	}
	if view.Gaps == nil {
		view.Gaps = []*usecases.RangeGap{}
	}
	for _, gr := range report.Ranges {
		view.Ranges = append(view.Ranges, newRangeView(gr))
	}
	return view
}

type priceView struct {
	Grade      string    `json:"grade"`
	Date       string    `json:"date"`
	Price      string    `json:"price"`
	RecordedBy uuid.UUID `json:"recorded_by"`
}

func newPriceView(p *model.ClosingPrice) priceView {
	return priceView{Grade: p.Grade, Date: p.Date.Format(time.DateOnly), Price: p.Price.StringFixed(2), RecordedBy: p.RecordedBy}
}

type dayView struct {
	Recorded []priceView       `json:"recorded"`
	Failed   map[string]string `json:"failed"`
}

type bandView struct {
	Grade      string `json:"grade"`
	LowerBound string `json:"lower_bound"`
	UpperBound string `json:"upper_bound"`
}

func newBandView(b *model.GradeBand) bandView {
	return bandView{Grade: b.Grade, LowerBound: b.LowerBound.StringFixed(2), UpperBound: b.UpperBound.StringFixed(2)}
}
