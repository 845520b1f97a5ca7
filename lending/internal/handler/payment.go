package handler

import (
	"net/http"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) ListPayments(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	list, err := h.paymentSvc.ListPayments(c.Request().Context(), a, page, size)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetPayment(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.paymentSvc.GetPayment(c.Request().Context(), a, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

// CreatePayment godoc
// @Summary  Open a new checkout session for a borrowing
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    request body model.CreatePaymentRequest true "payment"
// @Success  201 {object} model.Payment
// @Failure  502 {object} echo.HTTPError
// @Security BearerAuth
// @Router   /payments [post]
func (h *Handler) CreatePayment(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req model.CreatePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.paymentSvc.CreatePayment(c.Request().Context(), a, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

// PaymentSuccess is the checkout success redirect target.
func (h *Handler) PaymentSuccess(c echo.Context) error {
	msg, err := h.paymentSvc.HandleSuccess(c.Request().Context(), c.QueryParam("session_id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// PaymentCancel is the checkout cancel redirect target.
func (h *Handler) PaymentCancel(c echo.Context) error {
	msg, err := h.paymentSvc.HandleCancel(c.Request().Context(), c.QueryParam("session_id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}
