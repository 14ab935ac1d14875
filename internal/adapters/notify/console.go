package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alejandrodnm/polyreward/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Console implementa ports.Notifier.
type Console struct {
	out    io.Writer
	format string
}

// NewConsole crea un notificador que escribe a stdout.
// format es "text" (tablas) o "json" (el reporte completo indentado).
func NewConsole(format string) *Console {
	return NewConsoleWriter(os.Stdout, format)
}

// NewConsoleWriter crea un notificador sobre un writer arbitrario (tests, archivos).
func NewConsoleWriter(w io.Writer, format string) *Console {
	if format != FormatJSON {
		format = FormatText
	}
	return &Console{out: w, format: format}
}

// Notify imprime el reporte en el formato configurado.
func (c *Console) Notify(_ context.Context, report domain.Report) error {
	if c.format == FormatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("notify.Console: encode report: %w", err)
		}
		return nil
	}
	return c.printText(report)
}

// printText imprime la cabecera del mercado y una tabla por outcome.
func (c *Console) printText(report domain.Report) error {
	m := report.Market

	fmt.Fprintf(c.out, "\n--- Polymarket Reward Calculator [%s] ---\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(c.out, "Target Event: %s\n", m.EventSlug)
	fmt.Fprintf(c.out, "Investment: $%.2f\n", report.Capital)
	fmt.Fprintf(c.out, "Run: %s\n\n", report.RunID)
	fmt.Fprintf(c.out, "Market Question: %s\n", domain.TruncateQuestion(m.Question, m.ConditionID, 80))
	fmt.Fprintf(c.out, "Daily Reward Pool: $%.2f\n\n", m.DailyRewardPool)

	if len(report.Results) == 0 {
		fmt.Fprintln(c.out, "No outcomes to rate")
		return nil
	}

	for _, res := range report.Results {
		if res.Skipped {
			fmt.Fprintf(c.out, "Outcome: %s SKIPPED (%s)\n\n", res.Outcome.Label, res.SkipReason)
			continue
		}

		fmt.Fprintf(c.out, "Outcome: %s (Mid Price: %.4f, bid %.4f / ask %.4f)\n",
			res.Outcome.Label, res.MidPrice, res.BestBid, res.BestAsk)
		if err := c.printTable(report, res); err != nil {
			return err
		}
		if best, ok := res.BestEstimate(); ok {
			fmt.Fprintf(c.out, "  Best band: +/- %s ($%.2f/day)\n", best.Band.Label, best.EstimatedDailyReward)
		}
		fmt.Fprintln(c.out)
	}

	fmt.Fprintf(c.out, "  Rated: %d  Skipped: %d\n", report.Rated(), report.Skipped())
	fmt.Fprintln(c.out, "  Outcome pool = daily pool × mid price (approximation, not normalized across outcomes)")
	return nil
}

// printTable imprime las estimaciones por banda de un outcome.
func (c *Console) printTable(report domain.Report, res domain.OutcomeResult) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("Spread", "Range", "Depth", "Bids", "Asks", "Share", "Est. reward/day", "APR")

	for _, est := range res.Estimates {
		table.Append(
			"+/- "+est.Band.Label,
			fmt.Sprintf("$%.3f - $%.3f", est.MinPrice, est.MaxPrice),
			fmt.Sprintf("$%.2f", est.TotalDepthUSD),
			fmt.Sprintf("$%.0f", est.BidDepthUSD),
			fmt.Sprintf("$%.0f", est.AskDepthUSD),
			fmt.Sprintf("%.2f%%", est.UserShare*100),
			fmt.Sprintf("$%.2f", est.EstimatedDailyReward),
			fmt.Sprintf("%.1f%%", report.APR(est.EstimatedDailyReward)),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("notify.Console: render table: %w", err)
	}
	return nil
}
