package reports

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phpdave11/gofpdf"

	"github.com/sharifulislamudoy/money-manager/internal/auth"
)

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

// StatementPDF renders the caller's transaction history as a PDF. Defaults
// to the last 30 days; from/to accept YYYY-MM-DD.
func (h *Handler) StatementPDF(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		end := time.Now()
		start := end.AddDate(0, 0, -29)
		from = start.Format("2006-01-02")
		to = end.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}

	ctx := c.UserContext()
	rows, err := h.Pool.Query(ctx, `
SELECT type, amount, bdt_amount, usd_amount, currency, description, ts
FROM transactions
WHERE user_id = $1::uuid AND ts >= $2::date AND ts < $3::date + INTERVAL '1 day'
ORDER BY ts DESC
LIMIT 2000
`, userID, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed statement: "+err.Error())
	}
	defer rows.Close()

	type row struct {
		Type        string
		Amount      float64
		BDTAmount   float64
		USDAmount   float64
		Currency    string
		Description string
		TS          time.Time
	}

	var items []row
	var totalInBDT, totalOutBDT float64
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.Type, &r.Amount, &r.BDTAmount, &r.USDAmount, &r.Currency, &r.Description, &r.TS); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "scan statement: "+err.Error())
		}
		if r.Type == "add" {
			totalInBDT += r.BDTAmount
		} else {
			totalOutBDT += r.BDTAmount
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "statement rows: "+err.Error())
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Money Manager Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+from+" to "+to)
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{93, 93}
	pdf.CellFormat(sumW[0], 10, "Added (BDT)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Subtracted (BDT)", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, fmt.Sprintf("%.2f", totalInBDT), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, fmt.Sprintf("%.2f", totalOutBDT), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{18, 34, 74, 30, 30}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "BDT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[4], 8, "USD", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()
	pdf.SetTextColor(30, 30, 30)

	for _, it := range items {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}

		sign := "+"
		if it.Type == "minus" {
			sign = "-"
		}
		pdf.CellFormat(colW[0], 8, strings.ToUpper(it.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, it.TS.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(it.Description, 60), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, fmt.Sprintf("%s%.2f", sign, it.BDTAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 8, fmt.Sprintf("%s%.2f", sign, it.USDAmount), "1", 1, "R", false, 0, "")
	}

	if len(items) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No transactions in this period", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf render failed")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="statement_`+from+`_`+to+`.pdf"`)
	return c.Send(buf.Bytes())
}

func trimTo(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
