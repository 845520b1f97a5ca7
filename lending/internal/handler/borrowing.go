package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/labstack/echo/v4"
)

// CreateBorrowing godoc
// @Summary  Borrow a book
// @Tags     borrowings
// @Accept   json
// @Produce  json
// @Param    request body model.CreateBorrowingRequest true "borrowing"
// @Success  201 {object} model.Borrowing
// @Failure  400 {object} echo.HTTPError
// @Security BearerAuth
// @Router   /borrowings [post]
func (h *Handler) CreateBorrowing(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req model.CreateBorrowingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.borrowingSvc.CreateBorrowing(c.Request().Context(), a, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

// ReturnBorrowing godoc
// @Summary  Return a borrowed book
// @Tags     borrowings
// @Produce  json
// @Param    id path int true "borrowing id"
// @Success  200 {object} model.Borrowing
// @Security BearerAuth
// @Router   /borrowings/{id}/return [post]
func (h *Handler) ReturnBorrowing(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.borrowingSvc.ReturnBorrowing(c.Request().Context(), a, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) GetBorrowing(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.borrowingSvc.GetBorrowing(c.Request().Context(), a, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBorrowings(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	filter := model.BorrowingFilter{Page: page, Size: size}
	if userParam := c.QueryParam("user_id"); userParam != "" {
		userID, err := strconv.ParseInt(userParam, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "user_id is invalid")
		}
		filter.UserID = &userID
	}
	if activeParam := c.QueryParam("is_active"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_active is invalid")
		}
		filter.IsActive = &active
	}

	list, err := h.borrowingSvc.ListBorrowings(c.Request().Context(), a, filter)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}
