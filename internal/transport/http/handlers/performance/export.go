package performancehandler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/transport/http/middleware"
	"perfsvc/internal/transport/http/shared"
)

const dateLayout = "2006-01-02"

func (h *Handler) handleExportReview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	reviewID, ok := shared.UUIDParam(w, r, "reviewId", requestID)
	if !ok {
		return
	}
	review, err := h.Service.GetReview(r.Context(), reviewID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := RenderReviewPDF(&buf, review); err != nil {
		h.writeServiceError(w, r, fmt.Errorf("render review pdf: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=review-%s.pdf", review.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// RenderReviewPDF writes a one-page summary of review to out.
func RenderReviewPDF(out io.Writer, review performance.Review) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Review")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", review.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Reviewer: %s", review.ReviewerID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s", review.Cycle))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", review.PeriodStart.Format(dateLayout), review.PeriodEnd.Format(dateLayout)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", review.Status))
	pdf.Ln(7)
	rating := "Not rated"
	if review.OverallRating != nil {
		rating = fmt.Sprintf("%d (%s)", int(*review.OverallRating), review.OverallRating.String())
	}
	pdf.Cell(0, 8, "Overall rating: "+rating)
	pdf.Ln(10)

	section := func(title, body string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		if body == "" {
			body = "-"
		}
		pdf.MultiCell(0, 6, body, "", "L", false)
		pdf.Ln(4)
	}
	section("Self assessment", review.SelfAssessment)
	section("Manager assessment", review.ManagerAssessment)

	return pdf.Output(out)
}
