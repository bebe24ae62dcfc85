package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shaka3507/amanos/internal/models"
)

// currentUserID extracts the authenticated user's id from the claims
// stored by the JWT middleware.
func currentUserID(c echo.Context) (uint, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims.UserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
	}
	return claims.UserID, nil
}
