package api

import (
	"net/http"                       // HTTP status codes
	"storefront/internal/repository" // Product filters
	"storefront/internal/store"      // Store facade

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"github.com/tealeg/xlsx"     // Spreadsheet writer
)

// ExportProductsHandler downloads the whole catalog, inactive products
// included, as an xlsx workbook
func ExportProductsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		products, err := s.Products().List(ctx, repository.ProductFilter{IncludeInactive: true})
		if err != nil {
			writeError(c, err, "Export products")
			return
		}
		categories, err := s.Categories().List(ctx)
		if err != nil {
			writeError(c, err, "Export products")
			return
		}
		names := make(map[uint]string, len(categories))
		for _, category := range categories {
			names[category.ID] = category.Name
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		header := sheet.AddRow()
		for _, h := range []string{"ID", "Name", "Category", "Price", "Stock", "Active", "CreatedAt"} {
			header.AddCell().SetString(h)
		}
		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(p.ID))
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(names[p.CategoryID])
			row.AddCell().SetString(p.Price.StringFixed(2)) // Two decimals, as stored
			row.AddCell().SetInt(p.Stock)
			row.AddCell().SetBool(p.Active)
			row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			logrus.WithError(err).Error("Failed to write Excel file") // Headers are already sent
		}
	}
}
