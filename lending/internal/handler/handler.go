package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/pkg/auth"
	md "github.com/Astemirdum/lending-service/pkg/middleware"
	"github.com/Astemirdum/lending-service/pkg/validate"
	_ "github.com/Astemirdum/lending-service/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const (
	defaultPage = 1
	defaultSize = 20
	maxSize     = 100
)

type Handler struct {
	bookSvc      BookService
	borrowingSvc BorrowingService
	paymentSvc   PaymentService
	userSvc      UserService
	tokens       *auth.TokenManager
	log          *zap.Logger
}

func New(
	bookSvc BookService,
	borrowingSvc BorrowingService,
	paymentSvc PaymentService,
	userSvc UserService,
	tokens *auth.TokenManager,
	log *zap.Logger,
) *Handler {
	return &Handler{
		bookSvc:      bookSvc,
		borrowingSvc: borrowingSvc,
		paymentSvc:   paymentSvc,
		userSvc:      userSvc,
		tokens:       tokens,
		log:          log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/users", h.Register)
	api.POST("/users/token", h.Login)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/payments/success", h.PaymentSuccess)
	api.GET("/payments/cancel", h.PaymentCancel)

	authed := api.Group("", md.JwtAuthentication(h.tokens))
	authed.GET("/users/me", h.Me)

	staff := authed.Group("", md.RequireStaff)
	staff.POST("/books", h.CreateBook)
	staff.PUT("/books/:id", h.UpdateBook)
	staff.DELETE("/books/:id", h.DeleteBook)

	authed.GET("/borrowings", h.ListBorrowings)
	authed.POST("/borrowings", h.CreateBorrowing)
	authed.GET("/borrowings/:id", h.GetBorrowing)
	authed.POST("/borrowings/:id/return", h.ReturnBorrowing)

	authed.GET("/payments", h.ListPayments)
	authed.POST("/payments", h.CreatePayment)
	authed.GET("/payments/:id", h.GetPayment)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the errs taxonomy onto HTTP status codes.
func (h *Handler) httpError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrOutOfStock),
		errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrIntegrity):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, errs.ErrExternalService):
		code = http.StatusBadGateway
	default:
		h.log.Error("internal", zap.Error(err))
	}
	return echo.NewHTTPError(code, err.Error())
}

func actor(c echo.Context) (model.Actor, error) {
	p, err := auth.GetProfile(c.Request().Context())
	if err != nil {
		return model.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return model.Actor{UserID: p.UserID, Email: p.Email, IsStaff: p.IsStaff}, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

func paging(c echo.Context) (page, size int, err error) {
	page, size = defaultPage, defaultSize
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil || size < 1 || size > maxSize {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	return page, size, nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
