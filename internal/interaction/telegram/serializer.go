package telegram

import (
	"fmt"
	"strings"
	"time"

	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
)

var tierMarks = map[model.Tier]string{
	model.TierCurrent:  "🟢",
	model.TierExtended: "🟡",
	model.TierCritical: "🔴",
}

// RangesToString renders the report as one table per category.
func (that *Interaction) RangesToString(languageCode string, report *usecases.RangeReport) string {
	title, _ := that.renderLocaledMessage(languageCode, "rangesTitle", "Date", report.AsOf.Format(time.DateOnly))
	headerGrade, _ := that.renderLocaledMessage(languageCode, "columnGrade")
	headerLow, _ := that.renderLocaledMessage(languageCode, "columnLow")
	headerHigh, _ := that.renderLocaledMessage(languageCode, "columnHigh")
	headerStatus, _ := that.renderLocaledMessage(languageCode, "columnStatus")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", title))

	groups := report.ByCategory()
	for _, category := range model.Categories {
		ranges, ok := groups[category]
		if !ok {
			continue
		}

		name, _ := that.renderLocaledMessage(languageCode, "category."+string(category))
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n<pre>\n", name))
		sb.WriteString(fmt.Sprintf("%-8s %-10s %-10s %s\n", headerGrade, headerLow, headerHigh, headerStatus))

		for _, r := range ranges {
			lower, upper := r.Bounds()
			sb.WriteString(fmt.Sprintf("%-8s %-10s %-10s %s\n", r.Grade, lower.StringFixed(2), upper.StringFixed(2), that.statusToString(languageCode, r)))
		}

		sb.WriteString("</pre>")
	}

	if len(report.Gaps) > 0 {
		missing := make([]string, 0, len(report.Gaps))
		for _, gap := range report.Gaps {
			missing = append(missing, gap.Grade)
		}

		text, _ := that.renderLocaledMessage(languageCode, "missingGrades", "Grades", strings.Join(missing, ", "))
		sb.WriteString("\n<i>" + text + "</i>")
	}

	return sb.String()
}

func (that *Interaction) statusToString(languageCode string, r *usecases.GradeRange) string {
	if r.Dynamic == nil {
		text, _ := that.renderLocaledMessage(languageCode, "statusFixed")
		return "⚪ " + text
	}

	days := fmt.Sprint(r.Dynamic.DaysWithoutSales)
	text, _ := that.renderLocaledMessage(languageCode, "status."+string(r.Dynamic.Tier), "Days", days)
	return tierMarks[r.Dynamic.Tier] + " " + text
}
