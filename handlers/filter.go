package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

func courtParam(c echo.Context) string {
	court := c.Param("court")
	if unescaped, err := url.PathUnescape(court); err == nil {
		return unescaped
	}
	return court
}

// HighCourtsHandler lists catalogued high courts
func HighCourtsHandler(c echo.Context) error {
	courts, err := recordQueryService().CourtsMatching(c.Request().Context(), "high court")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"courts": courts})
}

// TribunalsHandler lists catalogued tribunals
func TribunalsHandler(c echo.Context) error {
	courts, err := recordQueryService().CourtsMatching(c.Request().Context(), "tribunal")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"courts": courts})
}

// CourtYearsHandler lists the years in which a court has citations
func CourtYearsHandler(c echo.Context) error {
	years, err := recordQueryService().CourtYears(c.Request().Context(), courtParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"years": years})
}

// CourtMonthsHandler lists the months of a year in which a court has citations
func CourtMonthsHandler(c echo.Context) error {
	year, err := intParam(c.Param("year"), 0)
	if err != nil {
		return badRequest(c, "Invalid year")
	}

	months, err := recordQueryService().CourtMonths(c.Request().Context(), courtParam(c), year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"months": months})
}

// CourtDaysHandler lists the days of a month in which a court has citations
func CourtDaysHandler(c echo.Context) error {
	year, errY := intParam(c.Param("year"), 0)
	month, errM := intParam(c.Param("month"), 0)
	if errY != nil || errM != nil {
		return badRequest(c, "Invalid date")
	}

	days, err := recordQueryService().CourtDays(c.Request().Context(), courtParam(c), year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"days": days})
}

// CourtCitationsHandler lists a court's citations ordered on one day
func CourtCitationsHandler(c echo.Context) error {
	year, errY := intParam(c.Param("year"), 0)
	month, errM := intParam(c.Param("month"), 0)
	day, errD := intParam(c.Param("day"), 0)
	if errY != nil || errM != nil || errD != nil {
		return badRequest(c, "Invalid date")
	}

	items, err := recordQueryService().CourtRecords(c.Request().Context(), courtParam(c), year, month, day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"citations": items})
}
