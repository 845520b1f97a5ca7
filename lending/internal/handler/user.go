package handler

import (
	"net/http"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.Credentials
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.userSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.Credentials
	if err := bind(c, &req); err != nil {
		return err
	}
	tok, err := h.userSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, tok)
}

func (h *Handler) Me(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	u, err := h.userSvc.GetUser(c.Request().Context(), a.UserID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, u)
}
