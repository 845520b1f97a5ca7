package handler

import (
	"net/http"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/labstack/echo/v4"
)

// ListBooks godoc
// @Summary  List books
// @Tags     books
// @Produce  json
// @Param    page query int false "page"
// @Param    size query int false "size"
// @Success  200 {object} model.ListBooks
// @Router   /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	books, err := h.bookSvc.ListBooks(c.Request().Context(), page, size)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.BookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.bookSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
