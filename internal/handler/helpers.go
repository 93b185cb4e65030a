package handler

import (
	"net/http"
	"time"

	"procurement-service/internal/model"
	"procurement-service/internal/sheets"
	"procurement-service/pkg/database"
	"procurement-service/pkg/logger"
	"procurement-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// timeNow is overridable in tests.
var timeNow = time.Now

const timestampLayout = "2006-01-02 15:04:05"

func timestampNow() string {
	return timeNow().Format(timestampLayout)
}

// gatewayError maps the mutation error taxonomy onto a response. Gateway and
// application failures both surface to the caller; the client retries
// manually, the service does not.
func gatewayError(c echo.Context, err error) error {
	log := logger.FromContext(c)
	switch {
	case sheets.IsAppError(err):
		log.Error("Gateway reported application failure", zap.Error(err))
		prometheus.RecordGatewayError("submit", "application")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	case sheets.IsGatewayError(err):
		log.Error("Gateway request failed", zap.Error(err))
		prometheus.RecordGatewayError("submit", "transport")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "record store is unreachable, please retry"})
	default:
		log.Error("Unexpected failure", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// bindAndValidate binds the request body and runs schema validation.
// Validation failures block submission entirely.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// audit writes one immutable audit trail entry. Audit failures are logged and
// swallowed; the workflow mutation already happened on the sheet.
func audit(c echo.Context, pipeline, recordID string, stage int, action, before, after string) {
	log := logger.FromContext(c)
	userID, _ := c.Get("user_id").(uint)

	db := database.GetDB()
	if db == nil {
		return
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	entry := model.ApprovalAudit{
		Pipeline:     pipeline,
		RecordID:     recordID,
		Stage:        stage,
		Action:       action,
		StatusBefore: before,
		StatusAfter:  after,
		PerformedBy:  userID,
		PerformedAt:  timeNow(),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Warn("Failed to write audit entry",
			zap.String("pipeline", pipeline),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
}
