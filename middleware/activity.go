package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habitd/models"
	"habitd/tracker"
)

// UsageRecorder counts successful API requests per day and route pattern,
// feeding the daily-activity figure on the stats endpoint.
func UsageRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		// Record the route pattern, not the raw URL, so /habits/:id/toggle
		// aggregates across habits instead of exploding per id.
		path := c.FullPath()
		if path == "" || path == "/health" || strings.Contains(path, "/stats") {
			return
		}

		day := tracker.FormatDay(time.Now())

		// Atomic upsert to avoid duplicate key errors under concurrency.
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
		}).Create(&models.UsageStat{Date: day, Path: path, Count: 1}).Error
	}
}
