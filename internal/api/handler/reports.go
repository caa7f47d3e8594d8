package handler

import (
	"fmt"
	"net/http"
	"time"

	"pontotaxi/backend/internal/reports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetReport generates a report for ?periodo= (mensal/trimestral/semestral/
// anual) or an explicit ?de=YYYY-MM-DD&ate=YYYY-MM-DD range.
// ?formato=xlsx downloads the spreadsheet; the default is JSON.
func (h *Handler) GetReport(c *gin.Context) {
	from, to, err := reportWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sum, err := h.Reports.Generate(from, to)
	if err != nil {
		h.Log.Error("report generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível gerar o relatório"})
		return
	}

	if c.DefaultQuery("formato", "json") != "xlsx" {
		c.JSON(http.StatusOK, sum)
		return
	}

	data, err := reports.Workbook(sum)
	if err != nil {
		h.Log.Error("workbook rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível gerar a planilha"})
		return
	}

	filename := fmt.Sprintf("relatorio-%s.xlsx", from.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func reportWindow(c *gin.Context) (time.Time, time.Time, error) {
	if de, ate := c.Query("de"), c.Query("ate"); de != "" || ate != "" {
		from, err := time.Parse("2006-01-02", de)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data inicial inválida")
		}
		until, err := time.Parse("2006-01-02", ate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data final inválida")
		}
		if !until.After(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("período inválido")
		}
		// The end date is inclusive in the UI.
		return from, until.AddDate(0, 0, 1), nil
	}

	return reports.Resolve(c.DefaultQuery("periodo", reports.PeriodMonthly), time.Now())
}
