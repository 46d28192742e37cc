package handler

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// ExportHandler downloads the caller's transactions as CSV or XLSX.
type ExportHandler struct {
	Store storage.Ledger
}

func NewExportHandler(store storage.Ledger) *ExportHandler {
	return &ExportHandler{Store: store}
}

var exportHeaders = []string{"date", "category", "title", "amount", "type", "memo"}

// callerTransactions loads the caller's transactions, optionally narrowed
// to the month given by the date query parameter.
func (h *ExportHandler) callerTransactions(c *gin.Context) ([]models.Transaction, bool) {
	caller, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	txs, err := h.Store.TransactionsByUser(c.Request.Context(), caller.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return nil, false
	}

	if date := c.Query("date"); date != "" {
		year, month, err := util.ParseMonthKey(date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be formatted as YYYY-MM")
			return nil, false
		}
		filtered := txs[:0]
		for _, t := range txs {
			d := time.UnixMilli(t.Date).UTC()
			if d.Year() == year && int(d.Month()) == month {
				filtered = append(filtered, t)
			}
		}
		txs = filtered
	}

	return txs, true
}

func exportRow(t *models.Transaction) []string {
	return []string{
		time.UnixMilli(t.Date).UTC().Format("2006-01-02"),
		t.Category,
		t.Title,
		strconv.FormatFloat(t.Amount, 'f', -1, 64),
		string(t.Type),
		t.Memo,
	}
}

func writeTransactionsCSV(w io.Writer, txs []models.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for i := range txs {
		if err := writer.Write(exportRow(&txs[i])); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSV streams the export as a CSV attachment.
func (h *ExportHandler) CSV(c *gin.Context) {
	txs, ok := h.callerTransactions(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFileName("csv")))

	// the status is already on the wire here, so a failed write can only be
	// recorded, not turned into an error envelope
	if err := writeTransactionsCSV(c.Writer, txs); err != nil {
		c.Error(fmt.Errorf("write csv export: %w", err))
	}
}

// XLSX streams the export as an Excel workbook.
func (h *ExportHandler) XLSX(c *gin.Context) {
	txs, ok := h.callerTransactions(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create worksheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range txs {
		row := idx + 2
		for col, v := range exportRow(&txs[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFileName("xlsx")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write workbook")
	}
}

// uuid + date as the file name
func exportFileName(ext string) string {
	return fmt.Sprintf("transactions-%s-%s.%s",
		time.Now().Format("20060102"), uuid.New().String(), ext)
}
