package handler

import (
	"net/http"

	"procurement-service/internal/model"
	"procurement-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetMasterOptions serves the master-configuration collection: vendors,
// departments and item taxonomies used to populate form dropdowns.
func GetMasterOptions(c echo.Context) error {
	log := logger.FromContext(c)

	options, err := gateway.FetchOptions(c.Request().Context(), model.SheetMaster)
	if err != nil {
		return gatewayError(c, err)
	}

	log.Info("Master options fetched", zap.Int("lists", len(options)))
	return c.JSON(http.StatusOK, echo.Map{"options": options})
}
