package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
	"github.com/libris/library-service/pkg/auth"
	"github.com/libris/library-service/pkg/cache"
	"github.com/libris/library-service/pkg/kafka"
	md "github.com/libris/library-service/pkg/middleware"
	"github.com/libris/library-service/pkg/validate"
)

const (
	allBooksCacheKey = "allBooks"
	booksCacheTTL    = 5 * time.Minute
)

type Handler struct {
	bookSvc   BookService
	borrowSvc BorrowService
	authSvc   AuthService
	enqueuer  Enqueuer
	cache     *cache.Cache
	jwtKey    []byte
	log       *zap.Logger
}

func New(book BookService, borrow BorrowService, authSvc AuthService, enq Enqueuer, jwtKey []byte, log *zap.Logger) *Handler {
	return &Handler{
		bookSvc:   book,
		borrowSvc: borrow,
		authSvc:   authSvc,
		enqueuer:  enq,
		cache:     cache.New(booksCacheTTL),
		jwtKey:    jwtKey,
		log:       log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
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

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	books := api.Group("/books", md.JwtAuthentication(h.jwtKey))
	books.GET("", h.GetAllBooks, md.RequireRole(auth.RoleAdmin, auth.RoleUser))
	books.POST("", h.AddBook, md.RequireRole(auth.RoleAdmin))
	books.GET("/:id", h.GetBookById, md.RequireRole(auth.RoleAdmin, auth.RoleUser))
	books.PUT("/:id", h.EditBook, md.RequireRole(auth.RoleAdmin))
	books.DELETE("/:id", h.DeleteBookById, md.RequireRole(auth.RoleAdmin))

	borrow := api.Group("/borrow", md.JwtAuthentication(h.jwtKey), md.RequireRole(auth.RoleUser))
	borrow.POST("/:bookId", h.BorrowBook)
	borrow.GET("", h.GetBorrowedBooks)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) GetAllBooks(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		err error
		q   model.ListBooksQuery
	)
	q.Filter = c.QueryParam("filter")
	if skipParam := c.QueryParam("skip"); skipParam != "" {
		if q.Skip, err = strconv.Atoi(skipParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("skip is invalid"))
		}
	}
	if takeParam := c.QueryParam("take"); takeParam != "" {
		if q.Take, err = strconv.Atoi(takeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("take is invalid"))
		}
	}
	q.OrderBy = c.QueryParam("orderBy")
	q.Direction = model.Direction(c.QueryParam("direction"))

	// only the parameterless listing is cached
	cacheable := q == (model.ListBooksQuery{})
	if cacheable {
		if v, ok := h.cache.Get(allBooksCacheKey); ok {
			return c.JSON(http.StatusOK, v)
		}
	}

	books, err := h.bookSvc.GetAllBooks(ctx, q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if cacheable {
		h.cache.Set(allBooksCacheKey, books)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) AddBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookSvc.AddBook(c.Request().Context(), req)
	if err != nil {
		if errs.IsBadRequest(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.Delete(allBooksCacheKey)

	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBookById(c echo.Context) error {
	bookUid := c.Param("id")
	book, err := h.bookSvc.GetBookById(c.Request().Context(), bookUid)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) EditBook(c echo.Context) error {
	bookUid := c.Param("id")
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookSvc.EditBook(c.Request().Context(), bookUid, req)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errs.IsBadRequest(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.Delete(allBooksCacheKey)

	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBookById(c echo.Context) error {
	bookUid := c.Param("id")
	if err := h.bookSvc.DeleteBookById(c.Request().Context(), bookUid); err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.Delete(allBooksCacheKey)

	return c.JSON(http.StatusOK, echo.Map{"message": "Book deleted successfully"})
}

func (h *Handler) BorrowBook(c echo.Context) error {
	bookUid := c.Param("bookId")
	if bookUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bookId is empty")
	}
	user, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth context")
	}

	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.BookUid = bookUid
	req.UserUid = user.UID
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.borrowSvc.BorrowBook(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errs.IsBadRequest(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.Delete(allBooksCacheKey)

	if err := h.enqueuer.Enqueue(kafka.BorrowingsTopic, model.BorrowEvent{
		BorrowUid:    rec.BorrowUid,
		BookUid:      rec.BookUid,
		UserUid:      rec.UserUid,
		BorrowedDate: rec.BorrowedDate,
		ReturnDate:   rec.ReturnDate,
	}); err != nil {
		h.log.Error("enqueue borrow event", zap.Error(err))
	}

	return c.String(http.StatusOK, "Book borrowed successfully.")
}

func (h *Handler) GetBorrowedBooks(c echo.Context) error {
	user, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth context")
	}

	items, err := h.borrowSvc.GetBorrowedBooksByUser(c.Request().Context(), user.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		if errs.IsBadRequest(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		if errs.IsBadRequest(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
