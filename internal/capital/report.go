package capital

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/bathingculture/books/internal/checkin"
)

// Report renders a plain-text capital summary, one line per category row.
// Amounts are shown as absolute values with grouping separators; stipend
// rows carry the day count.
func Report(periods []Period, partners []Partner) string {
	p := message.NewPrinter(language.AmericanEnglish)

	var sb strings.Builder

	for _, period := range periods {
		sb.WriteString(period.Label + "\n")

		for _, c := range period.Categories {
			sb.WriteString(fmt.Sprintf("  %-16s", c.Name))

			for _, partner := range partners {
				v := c.Values[partner.ID]
				amount := p.Sprintf("%v", number.Decimal(math.Abs(v.Amount),
					number.MinFractionDigits(2), number.MaxFractionDigits(2)))

				if v.Count != nil {
					amount = fmt.Sprintf("%s (%d x %d)", amount, *v.Count, checkin.StipendAmount)
				}

				sb.WriteString(fmt.Sprintf(" | %s: %s", partner.Username, amount))
			}

			sb.WriteString("\n")
		}
	}

	return sb.String()
}
