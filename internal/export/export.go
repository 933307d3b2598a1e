// Package export renders a user's records for download.
package export

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/settings"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "text"
	FormatZip  Format = "zip"
)

var ErrUnknownFormat = errors.New("unknown export format")

var csvHeader = []string{"id", "date", "description", "category", "type", "paymentMethod", "amount"}

// ParseFormat defaults to CSV when s is empty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatText, FormatZip:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatZip:
		return "application/zip"
	}

	return "text/csv; charset=utf-8"
}

// Filename names the download for the given range.
func (f Format) Filename(r analytics.Range) string {
	ext := map[Format]string{FormatCSV: "csv", FormatText: "txt", FormatZip: "zip"}[f]

	return fmt.Sprintf("financia_%s_%s.%s", r.Start, r.End, ext)
}

// Write exports the transactions of txs dated within r. The text report shows
// amounts in cur; CSV amounts stay plain decimals.
func Write(w io.Writer, f Format, txs []transaction.Transaction, r analytics.Range, cur settings.Currency) error {
	filtered := analytics.Filter(txs, r)

	switch f {
	case FormatCSV:
		return WriteCSV(w, filtered)
	case FormatText:
		_, err := io.WriteString(w, Report(filtered, r, cur))
		return err
	case FormatZip:
		return writeArchive(w, filtered, r, cur)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteCSV writes one row per transaction, in the given order.
func WriteCSV(w io.Writer, txs []transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			tx.ID,
			tx.Date.String(),
			tx.Description,
			tx.Category,
			string(tx.Type),
			string(tx.PaymentMethod),
			tx.Amount.StringFixed(2),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Report creates a plain-text listing of txs followed by the period totals.
func Report(txs []transaction.Transaction, r analytics.Range, cur settings.Currency) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Period %s to %s\n\n", r.Start, r.End)

	for _, tx := range txs {
		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		cat := category.Resolve(tx.CategoryKind(), tx.Category)

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s %s\n",
			tx.Date, tx.Description, sign, cur.Format(tx.Amount), cat.Icon, cat.Name)
	}

	totals := analytics.Totalize(txs)

	fmt.Fprintf(&sb, "\nIncome:  %s\n", cur.Format(totals.Income))
	fmt.Fprintf(&sb, "Expense: %s\n", cur.Format(totals.Expense))
	fmt.Fprintf(&sb, "Balance: %s\n", cur.Format(totals.Balance))

	return sb.String()
}

func writeArchive(w io.Writer, txs []transaction.Transaction, r analytics.Range, cur settings.Currency) error {
	zw := zip.NewWriter(w)

	cf, err := zw.Create(FormatCSV.Filename(r))
	if err != nil {
		return fmt.Errorf("creating csv entry: %w", err)
	}

	if err := WriteCSV(cf, txs); err != nil {
		return err
	}

	rf, err := zw.Create(FormatText.Filename(r))
	if err != nil {
		return fmt.Errorf("creating report entry: %w", err)
	}

	if _, err := io.WriteString(rf, Report(txs, r, cur)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return zw.Close()
}
